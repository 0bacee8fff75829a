package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/gorm"
)

type seedBook struct {
	title       string
	description string
	year        int
	author      string
	genres      []string
}

var seedGenres = []string{
	"Classic",
	"Dystopia",
	"Fantasy",
	"Mystery",
	"Novel",
	"Science Fiction",
}

var seedAuthors = []model.Author{
	{
		FullName:  "George Orwell",
		Biography: "English novelist and essayist, known for his lucid prose and opposition to totalitarianism.",
	},
	{
		FullName:  "Ursula K. Le Guin",
		Biography: "American author of speculative fiction whose work explores anthropology, gender and power.",
	},
	{
		FullName:  "Agatha Christie",
		Biography: "English writer of detective fiction, creator of Hercule Poirot and Miss Marple.",
	},
	{
		FullName:  "Fyodor Dostoevsky",
		Biography: "Russian novelist whose work examines morality, faith and the human psyche.",
	},
}

var seedBooks = []seedBook{
	{
		title:       "Nineteen Eighty-Four",
		description: "A totalitarian state watches every citizen while one clerk dares to remember the truth.",
		year:        1949,
		author:      "George Orwell",
		genres:      []string{"Dystopia", "Science Fiction", "Classic"},
	},
	{
		title:       "Animal Farm",
		description: "Farm animals overthrow their farmer only to watch the revolution betray itself.",
		year:        1945,
		author:      "George Orwell",
		genres:      []string{"Classic", "Novel"},
	},
	{
		title:       "A Wizard of Earthsea",
		description: "A gifted young mage unleashes a shadow and must chase it across the archipelago.",
		year:        1968,
		author:      "Ursula K. Le Guin",
		genres:      []string{"Fantasy"},
	},
	{
		title:       "The Left Hand of Darkness",
		description: "An envoy to a frozen world learns to see beyond the categories of gender.",
		year:        1969,
		author:      "Ursula K. Le Guin",
		genres:      []string{"Science Fiction"},
	},
	{
		title:       "Murder on the Orient Express",
		description: "A snowbound train, a murdered passenger and a detective with twelve suspects.",
		year:        1934,
		author:      "Agatha Christie",
		genres:      []string{"Mystery", "Classic"},
	},
	{
		title:       "Crime and Punishment",
		description: "A destitute student commits a murder and is consumed by guilt and fear.",
		year:        1866,
		author:      "Fyodor Dostoevsky",
		genres:      []string{"Novel", "Classic"},
	},
}

type seedUser struct {
	username string
	email    string
	password string
	role     model.Role
}

var seedUsers = []seedUser{
	{username: "admin", email: "admin@example.com", password: "admin123", role: model.RoleAdmin},
	{username: "reader", email: "reader@example.com", password: "reader123", role: model.RoleUser},
}

// Seed fills an empty catalog with demo genres, authors, books, users and
// reviews. It does nothing when any book already exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		slog.Info("catalog already populated, skipping seed", "books", count)
		return nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := make(map[string]model.Genre, len(seedGenres))
		for _, name := range seedGenres {
			g := model.Genre{Name: name}
			if err := tx.Create(&g).Error; err != nil {
				return fmt.Errorf("seed genre %q: %w", name, err)
			}
			genres[name] = g
		}

		authors := make(map[string]model.Author, len(seedAuthors))
		for _, a := range seedAuthors {
			if err := tx.Omit("Books").Create(&a).Error; err != nil {
				return fmt.Errorf("seed author %q: %w", a.FullName, err)
			}
			authors[a.FullName] = a
		}

		books := make([]model.Book, 0, len(seedBooks))
		for _, sb := range seedBooks {
			book := model.Book{
				Title:           sb.title,
				Description:     sb.description,
				PublicationYear: sb.year,
				AuthorID:        authors[sb.author].ID,
			}
			for _, name := range sb.genres {
				book.Genres = append(book.Genres, genres[name])
			}
			if err := tx.Omit("Author", "Reviews", "Genres.*").Create(&book).Error; err != nil {
				return fmt.Errorf("seed book %q: %w", sb.title, err)
			}
			books = append(books, book)
		}

		users := make([]model.User, 0, len(seedUsers))
		for _, su := range seedUsers {
			hash, err := auth.HashPassword(su.password)
			if err != nil {
				return fmt.Errorf("hash password of %q: %w", su.username, err)
			}
			u := model.User{
				Username:     su.username,
				Email:        su.email,
				PasswordHash: hash,
				Role:         su.role,
			}
			if err := tx.Omit("Reviews").Create(&u).Error; err != nil {
				return fmt.Errorf("seed user %q: %w", su.username, err)
			}
			users = append(users, u)
		}

		now := time.Now().UTC()
		reviews := []model.Review{
			{Text: "Chilling and more relevant every year.", Rating: 5, BookID: books[0].ID, UserID: users[1].ID},
			{Text: "A sharp fable that reads in one sitting.", Rating: 4, BookID: books[1].ID, UserID: users[1].ID},
			{Text: "The ending still surprises me after many reads.", Rating: 5, BookID: books[4].ID, UserID: users[0].ID},
		}
		for i := range reviews {
			reviews[i].CreatedAt = now.Add(-time.Duration(len(reviews)-i) * time.Hour)
			if err := tx.Omit("Book", "User").Create(&reviews[i]).Error; err != nil {
				return fmt.Errorf("seed review: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("seeded demo catalog",
		"genres", len(seedGenres),
		"authors", len(seedAuthors),
		"books", len(seedBooks),
		"users", len(seedUsers),
	)
	return nil
}
