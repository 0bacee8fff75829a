package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/testutil"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) (model.Genre, model.Genre) {
	t.Helper()

	orwell := testutil.SeedAuthor(t, db, "George Orwell")
	leGuin := testutil.SeedAuthor(t, db, "Ursula K. Le Guin")

	dystopia := testutil.SeedGenre(t, db, "Dystopia")
	scifi := testutil.SeedGenre(t, db, "Science Fiction")

	testutil.SeedBook(t, db, orwell, "Nineteen Eighty-Four", 1949, dystopia, scifi)
	testutil.SeedBook(t, db, orwell, "Animal Farm", 1945, dystopia)
	testutil.SeedBook(t, db, leGuin, "The Dispossessed", 1974, scifi)
	testutil.SeedBook(t, db, leGuin, "The Left Hand of Darkness", 1969, scifi)

	return dystopia, scifi
}

func intPtr(v int) *int {
	return &v
}

func titles(books []model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGormBookRepository_Search(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalog(t, db)

	repo := NewBookRepository(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter BookFilter
		want   []string
	}{
		{
			name:   "no criteria returns everything by id",
			filter: BookFilter{},
			want:   []string{"Nineteen Eighty-Four", "Animal Farm", "The Dispossessed", "The Left Hand of Darkness"},
		},
		{
			name:   "title is case-insensitive",
			filter: BookFilter{Title: "THE"},
			want:   []string{"The Dispossessed", "The Left Hand of Darkness"},
		},
		{
			name:   "author substring",
			filter: BookFilter{AuthorName: "orwell"},
			want:   []string{"Nineteen Eighty-Four", "Animal Farm"},
		},
		{
			name:   "genre substring",
			filter: BookFilter{GenreName: "dysto"},
			want:   []string{"Nineteen Eighty-Four", "Animal Farm"},
		},
		{
			name:   "year range is inclusive",
			filter: BookFilter{MinYear: intPtr(1949), MaxYear: intPtr(1969)},
			want:   []string{"Nineteen Eighty-Four", "The Left Hand of Darkness"},
		},
		{
			name:   "criteria are combined",
			filter: BookFilter{GenreName: "science", AuthorName: "guin", MinYear: intPtr(1970)},
			want:   []string{"The Dispossessed"},
		},
		{
			name:   "like wildcards are literal",
			filter: BookFilter{Title: "%"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}

			got := titles(page.Books)
			if !equalStrings(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if page.Total != int64(len(tt.want)) {
				t.Fatalf("expected total %d, got %d", len(tt.want), page.Total)
			}
		})
	}
}

func TestGormBookRepository_SearchPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalog(t, db)

	repo := NewBookRepository(db)

	page, err := repo.Search(context.Background(), BookFilter{Offset: 2, Limit: 1})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if page.Total != 4 {
		t.Fatalf("expected total 4, got %d", page.Total)
	}
	if got := titles(page.Books); !equalStrings(got, []string{"The Dispossessed"}) {
		t.Fatalf("expected third book only, got %v", got)
	}
}

func TestGormBookRepository_FindByIDPreloads(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalog(t, db)

	repo := NewBookRepository(db)

	book, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}

	if book.Author.FullName != "George Orwell" {
		t.Fatalf("expected author to be preloaded, got %q", book.Author.FullName)
	}
	if len(book.Genres) != 2 || book.Genres[0].Name != "Dystopia" {
		t.Fatalf("expected genres ordered by name, got %+v", book.Genres)
	}

	_, err = repo.FindByID(context.Background(), 99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGormBookRepository_ListByGenre(t *testing.T) {
	db := testutil.NewTestDB(t)
	dystopia, _ := seedCatalog(t, db)

	repo := NewBookRepository(db)

	books, err := repo.ListByGenre(context.Background(), dystopia.ID)
	if err != nil {
		t.Fatalf("ListByGenre returned error: %v", err)
	}

	if got := titles(books); !equalStrings(got, []string{"Nineteen Eighty-Four", "Animal Farm"}) {
		t.Fatalf("unexpected books: %v", got)
	}
}

func TestGormBookRepository_UpdateGenres(t *testing.T) {
	db := testutil.NewTestDB(t)
	dystopia, scifi := seedCatalog(t, db)

	repo := NewBookRepository(db)
	ctx := context.Background()

	book, err := repo.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}

	book.Title = "Animal Farm: A Fairy Story"
	if err := repo.Update(ctx, book, nil); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, _ := repo.FindByID(ctx, 2)
	if got.Title != "Animal Farm: A Fairy Story" {
		t.Fatalf("expected title to be updated, got %q", got.Title)
	}
	if len(got.Genres) != 1 || got.Genres[0].ID != dystopia.ID {
		t.Fatalf("expected genres to be kept, got %+v", got.Genres)
	}

	if err := repo.Update(ctx, got, []model.Genre{scifi}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, _ = repo.FindByID(ctx, 2)
	if len(got.Genres) != 1 || got.Genres[0].ID != scifi.ID {
		t.Fatalf("expected genres to be replaced, got %+v", got.Genres)
	}

	missing := &model.Book{ID: 99, Title: "Ghost"}
	if err := repo.Update(ctx, missing, nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGormBookRepository_DeleteRemovesGenreLinks(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalog(t, db)

	repo := NewBookRepository(db)
	ctx := context.Background()

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var links int64
	if err := db.Table("book_genres").Where("book_id = ?", 1).Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Fatalf("expected genre links to be removed, got %d", links)
	}

	if err := repo.Delete(ctx, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Dune":    "%Dune%",
		"Война":   "%Война%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\up`: `%back\\up%`,
	}

	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGormBookRepository_SearchCyrillic(t *testing.T) {
	db := testutil.NewTestDB(t)
	tolstoy := testutil.SeedAuthor(t, db, "Лев Толстой")
	novel := testutil.SeedGenre(t, db, "Роман")
	testutil.SeedBook(t, db, tolstoy, "Война и мир", 1869, novel)

	repo := NewBookRepository(db)

	filters := map[string]BookFilter{
		"title":  {Title: "Война"},
		"author": {AuthorName: "Толстой"},
		"genre":  {GenreName: "Роман"},
		"inner":  {Title: "и мир"},
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			page, err := repo.Search(context.Background(), filter)
			if err != nil {
				t.Fatalf("Search returned error: %v", err)
			}
			if got := titles(page.Books); !equalStrings(got, []string{"Война и мир"}) {
				t.Fatalf("expected the Cyrillic book, got %v", got)
			}
		})
	}
}
