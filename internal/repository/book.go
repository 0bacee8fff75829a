package repository

import (
	"context"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/gorm"
)

// BookFilter narrows a book query. Empty strings and nil years are ignored;
// every present criterion must match. Limit 0 returns all matches.
type BookFilter struct {
	Title      string
	AuthorName string
	GenreName  string
	MinYear    *int
	MaxYear    *int
	Offset     int
	Limit      int
}

type BookPage struct {
	Books []model.Book
	Total int64
}

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id int) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	ListByGenre(ctx context.Context, genreID int) ([]model.Book, error)
	Search(ctx context.Context, filter BookFilter) (BookPage, error)
	Update(ctx context.Context, book *model.Book, genres []model.Genre) error
	Delete(ctx context.Context, id int) error
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// Create inserts the book and its genre links. Author and Genres must
// already exist; their rows are not written.
func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).
		Omit("Author", "Reviews", "Genres.*").
		Create(book).Error
}

func (r *GormBookRepository) FindByID(ctx context.Context, id int) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		}).
		First(&book, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) List(ctx context.Context) ([]model.Book, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *GormBookRepository) ListByGenre(ctx context.Context, genreID int) ([]model.Book, error) {
	q := r.db.WithContext(ctx).
		Where("books.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", genreID)
	return r.find(ctx, q)
}

func (r *GormBookRepository) Search(ctx context.Context, filter BookFilter) (BookPage, error) {
	var total int64
	if err := applyBookFilter(r.db.WithContext(ctx).Model(&model.Book{}), filter).
		Count(&total).Error; err != nil {

		return BookPage{}, err
	}

	q := applyBookFilter(r.db.WithContext(ctx), filter)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	books, err := r.find(ctx, q)
	if err != nil {
		return BookPage{}, err
	}

	return BookPage{Books: books, Total: total}, nil
}

// Update overwrites the mutable columns. A nil genres slice leaves the genre
// links untouched; otherwise they are replaced.
func (r *GormBookRepository) Update(ctx context.Context, book *model.Book, genres []model.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Book{}).
			Where("id = ?", book.ID).
			Updates(map[string]any{
				"title":            book.Title,
				"description":      book.Description,
				"publication_year": book.PublicationYear,
				"cover_image_url":  book.CoverImageURL,
				"author_id":        book.AuthorID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if genres == nil {
			return nil
		}
		return tx.Model(&model.Book{ID: book.ID}).
			Association("Genres").
			Replace(genres)
	})
}

func (r *GormBookRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Book{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormBookRepository) find(ctx context.Context, q *gorm.DB) ([]model.Book, error) {
	var books []model.Book
	if err := q.
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		}).
		Order("books.id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

func applyBookFilter(q *gorm.DB, f BookFilter) *gorm.DB {
	if f.Title != "" {
		q = q.Where(containsClause(q, "books.title"), containsPattern(f.Title))
	}
	if f.AuthorName != "" {
		q = q.Where(
			"books.author_id IN (SELECT id FROM authors WHERE "+containsClause(q, "full_name")+")",
			containsPattern(f.AuthorName),
		)
	}
	if f.GenreName != "" {
		q = q.Where(
			"books.id IN (SELECT bg.book_id FROM book_genres bg JOIN genres g ON g.id = bg.genre_id WHERE "+containsClause(q, "g.name")+")",
			containsPattern(f.GenreName),
		)
	}
	if f.MinYear != nil {
		q = q.Where("books.publication_year >= ?", *f.MinYear)
	}
	if f.MaxYear != nil {
		q = q.Where("books.publication_year <= ?", *f.MaxYear)
	}
	return q
}
