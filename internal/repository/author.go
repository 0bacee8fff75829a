package repository

import (
	"context"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/gorm"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) error
	FindByID(ctx context.Context, id int) (*model.Author, error)
	FindWithBooks(ctx context.Context, id int) (*model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id int) error
	BookCounts(ctx context.Context, ids []int) (map[int]int64, error)
}

type GormAuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

func (r *GormAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	return r.db.WithContext(ctx).Omit("Books").Create(author).Error
}

func (r *GormAuthorRepository) FindByID(ctx context.Context, id int) (*model.Author, error) {
	var author model.Author
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// FindWithBooks loads the author together with its books and their genres.
func (r *GormAuthorRepository) FindWithBooks(ctx context.Context, id int) (*model.Author, error) {
	var author model.Author
	if err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.id ASC")
		}).
		Preload("Books.Genres").
		First(&author, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &author, nil
}

func (r *GormAuthorRepository) List(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	if err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Order("id ASC").
		Find(&authors).Error; err != nil {

		return nil, err
	}
	return authors, nil
}

func (r *GormAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	result := r.db.WithContext(ctx).
		Model(&model.Author{}).
		Where("id = ?", author.ID).
		Updates(map[string]any{
			"full_name": author.FullName,
			"biography": author.Biography,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAuthorRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Author{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BookCounts returns the number of books per author id. Authors without
// books are absent from the map.
func (r *GormAuthorRepository) BookCounts(ctx context.Context, ids []int) (map[int]int64, error) {
	if len(ids) == 0 {
		return map[int]int64{}, nil
	}

	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Select("author_id AS id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&rows).Error; err != nil {

		return nil, err
	}
	return countsByID(rows), nil
}
