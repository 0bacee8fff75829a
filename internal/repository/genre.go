package repository

import (
	"context"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	FindByID(ctx context.Context, id int) (*model.Genre, error)
	FindByIDs(ctx context.Context, ids []int) ([]model.Genre, error)
	FindByName(ctx context.Context, name string) (*model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id int) error
	BookCounts(ctx context.Context, ids []int) (map[int]int64, error)
	Popular(ctx context.Context, limit int) ([]model.GenreWithBookCount, error)
	Search(ctx context.Context, term string) ([]model.Genre, error)
}

type GormGenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GormGenreRepository {
	return &GormGenreRepository{db: db}
}

func (r *GormGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	return r.db.WithContext(ctx).Omit("Books").Create(genre).Error
}

func (r *GormGenreRepository) FindByID(ctx context.Context, id int) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GormGenreRepository) FindByIDs(ctx context.Context, ids []int) ([]model.Genre, error) {
	if len(ids) == 0 {
		return []model.Genre{}, nil
	}

	var genres []model.Genre
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&genres).Error; err != nil {

		return nil, err
	}
	return genres, nil
}

// FindByName matches the name exactly, case included.
func (r *GormGenreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GormGenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *GormGenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	result := r.db.WithContext(ctx).
		Model(&model.Genre{}).
		Where("id = ?", genre.ID).
		Update("name", genre.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormGenreRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Genre{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormGenreRepository) BookCounts(ctx context.Context, ids []int) (map[int]int64, error) {
	if len(ids) == 0 {
		return map[int]int64{}, nil
	}

	var rows []countRow
	if err := r.db.WithContext(ctx).
		Table("book_genres").
		Select("genre_id AS id, COUNT(*) AS total").
		Where("genre_id IN ?", ids).
		Group("genre_id").
		Scan(&rows).Error; err != nil {

		return nil, err
	}
	return countsByID(rows), nil
}

// Popular orders genres by descending book count, ties broken by name.
func (r *GormGenreRepository) Popular(ctx context.Context, limit int) ([]model.GenreWithBookCount, error) {
	var rows []model.GenreWithBookCount
	if err := r.db.WithContext(ctx).
		Table("genres").
		Select("genres.*, COUNT(book_genres.book_id) AS book_count").
		Joins("LEFT JOIN book_genres ON book_genres.genre_id = genres.id").
		Group("genres.id").
		Order("book_count DESC").
		Order("genres.name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {

		return nil, err
	}
	return rows, nil
}

func (r *GormGenreRepository) Search(ctx context.Context, term string) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).
		Where(containsClause(r.db, "name"), containsPattern(term)).
		Order("name ASC").
		Find(&genres).Error; err != nil {

		return nil, err
	}
	return genres, nil
}
