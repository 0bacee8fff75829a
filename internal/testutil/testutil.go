package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with every table
// migrated. It is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewErrorDB opens a database without any tables, so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func SeedAuthor(t *testing.T, db *gorm.DB, fullName string) model.Author {
	t.Helper()

	author := model.Author{
		FullName:  fullName,
		Biography: "Biography of " + fullName,
	}

	if err := db.Omit("Books").Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author %q: %v", fullName, err)
	}

	return author
}

func SeedGenre(t *testing.T, db *gorm.DB, name string) model.Genre {
	t.Helper()

	genre := model.Genre{Name: name}

	if err := db.Omit("Books").Create(&genre).Error; err != nil {
		t.Fatalf("failed to seed genre %q: %v", name, err)
	}

	return genre
}

func SeedBook(t *testing.T, db *gorm.DB, author model.Author, title string, year int, genres ...model.Genre) model.Book {
	t.Helper()

	book := model.Book{
		Title:           title,
		Description:     "Description of " + title,
		PublicationYear: year,
		AuthorID:        author.ID,
		Genres:          genres,
	}

	if err := db.Omit("Author", "Reviews", "Genres.*").Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return book
}

// SeedUser stores a user whose password is "password".
func SeedUser(t *testing.T, db *gorm.DB, username string, role model.Role) model.User {
	t.Helper()

	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}

	if err := db.Omit("Reviews").Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}

	return user
}

func SeedReview(t *testing.T, db *gorm.DB, book model.Book, user model.User, rating int) model.Review {
	t.Helper()

	review := model.Review{
		Text:   "A review that is long enough.",
		Rating: rating,
		BookID: book.ID,
		UserID: user.ID,
	}

	if err := db.Omit("Book", "User").Create(&review).Error; err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}

	return review
}
