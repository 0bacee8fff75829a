package model

import "time"

type Review struct {
	ID        int    `gorm:"primaryKey"`
	Text      string `gorm:"size:2000;not null"`
	Rating    int    `gorm:"not null"`
	BookID    int    `gorm:"not null;uniqueIndex:idx_reviews_user_book,priority:2;index"`
	Book      Book
	UserID    int `gorm:"not null;uniqueIndex:idx_reviews_user_book,priority:1"`
	User      User
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// RatingStat aggregates the reviews of a single book.
type RatingStat struct {
	BookID  int
	Average float64
	Count   int64
}
