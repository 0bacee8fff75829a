package model

import "time"

type Book struct {
	ID              int    `gorm:"primaryKey"`
	Title           string `gorm:"size:200;not null;index"`
	Description     string `gorm:"size:2000;not null"`
	PublicationYear int    `gorm:"not null;index"`
	CoverImageURL   string `gorm:"size:500"`
	AuthorID        int    `gorm:"not null;index"`
	Author          Author
	Genres          []Genre  `gorm:"many2many:book_genres;"`
	Reviews         []Review `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
