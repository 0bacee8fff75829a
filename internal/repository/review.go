package repository

import (
	"context"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id int) (*model.Review, error)
	List(ctx context.Context) ([]model.Review, error)
	ListByBook(ctx context.Context, bookID int) ([]model.Review, error)
	ListByUser(ctx context.Context, userID int) ([]model.Review, error)
	ListByUsers(ctx context.Context, userIDs []int) ([]model.Review, error)
	Recent(ctx context.Context, limit int) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, userID, bookID int) (bool, error)
	RatingStats(ctx context.Context, bookIDs []int) (map[int]model.RatingStat, error)
	CountsByUser(ctx context.Context, userIDs []int) (map[int]int64, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit("Book", "User").Create(review).Error
}

// FindByID loads the review with its book and author of the review.
func (r *GormReviewRepository) FindByID(ctx context.Context, id int) (*model.Review, error) {
	var review model.Review
	if err := r.withDetails(ctx).First(&review, "reviews.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) List(ctx context.Context) ([]model.Review, error) {
	return r.find(r.withDetails(ctx))
}

func (r *GormReviewRepository) ListByBook(ctx context.Context, bookID int) ([]model.Review, error) {
	return r.find(r.withDetails(ctx).Where("book_id = ?", bookID))
}

func (r *GormReviewRepository) ListByUser(ctx context.Context, userID int) ([]model.Review, error) {
	return r.find(r.withDetails(ctx).Where("user_id = ?", userID))
}

func (r *GormReviewRepository) ListByUsers(ctx context.Context, userIDs []int) ([]model.Review, error) {
	if len(userIDs) == 0 {
		return []model.Review{}, nil
	}
	return r.find(r.withDetails(ctx).Where("user_id IN ?", userIDs))
}

func (r *GormReviewRepository) Recent(ctx context.Context, limit int) ([]model.Review, error) {
	return r.find(r.withDetails(ctx).Limit(limit))
}

func (r *GormReviewRepository) Update(ctx context.Context, review *model.Review) error {
	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"text":   review.Text,
			"rating": review.Rating,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReviewRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReviewRepository) Exists(ctx context.Context, userID, bookID int) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&n).Error; err != nil {

		return false, err
	}
	return n > 0, nil
}

// RatingStats returns the unrounded mean rating and review count per book.
// Books without reviews are absent from the map.
func (r *GormReviewRepository) RatingStats(ctx context.Context, bookIDs []int) (map[int]model.RatingStat, error) {
	stats := make(map[int]model.RatingStat, len(bookIDs))
	if len(bookIDs) == 0 {
		return stats, nil
	}

	var rows []model.RatingStat
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("book_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error; err != nil {

		return nil, err
	}

	for _, s := range rows {
		stats[s.BookID] = s
	}
	return stats, nil
}

func (r *GormReviewRepository) CountsByUser(ctx context.Context, userIDs []int) (map[int]int64, error) {
	if len(userIDs) == 0 {
		return map[int]int64{}, nil
	}

	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("user_id AS id, COUNT(*) AS total").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error; err != nil {

		return nil, err
	}
	return countsByID(rows), nil
}

func (r *GormReviewRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Book").
		Preload("User")
}

// find orders newest first; id breaks ties between reviews stamped in the
// same instant.
func (r *GormReviewRepository) find(q *gorm.DB) ([]model.Review, error) {
	var reviews []model.Review
	if err := q.
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Find(&reviews).Error; err != nil {

		return nil, err
	}
	return reviews, nil
}
