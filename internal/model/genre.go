package model

import "time"

type Genre struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;uniqueIndex"`
	Books     []Book `gorm:"many2many:book_genres;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenreWithBookCount is a genre row joined with the number of books
// tagged with it.
type GenreWithBookCount struct {
	Genre
	BookCount int64
}
