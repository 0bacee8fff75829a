package model

import "time"

type Author struct {
	ID        int    `gorm:"primaryKey"`
	FullName  string `gorm:"size:100;not null;index"`
	Biography string `gorm:"size:2000;not null"`
	Books     []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
