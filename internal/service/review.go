package service

import (
	"context"
	"fmt"
	"time"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/repository"
)

const maxRecentReviews = 50

type CreateReviewInput struct {
	Text   string `json:"text" validate:"required,notblank,min=10,max=2000"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	BookID int    `json:"book_id" validate:"gt=0"`
	UserID int    `json:"user_id" validate:"gt=0"`
}

// UpdateReviewInput changes text and rating only; book, author of the review
// and creation time are fixed once the review exists.
type UpdateReviewInput struct {
	ID     int    `json:"id" validate:"gt=0"`
	Text   string `json:"text" validate:"required,notblank,min=10,max=2000"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

type ReviewDTO struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	BookID    int       `json:"book_id"`
	BookTitle string    `json:"book_title"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
}

type ReviewService struct {
	reviews repository.ReviewRepository
	books   repository.BookRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewReviewService(
	reviews repository.ReviewRepository,
	books repository.BookRepository,
	users repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		books:   books,
		users:   users,
		now:     time.Now,
	}
}

// List returns every review, newest first.
func (s *ReviewService) List(ctx context.Context) ([]ReviewDTO, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return toReviewDTOs(reviews), nil
}

func (s *ReviewService) GetByID(ctx context.Context, id int) (*ReviewDTO, error) {
	if err := requirePositive("ID", id); err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Review", id)
	}

	dto := toReviewDTO(*review)
	return &dto, nil
}

// Create accepts one review per user and book, stamped with the time of
// acceptance.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*ReviewDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		return nil, lookup(err, "Book", in.BookID)
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, lookup(err, "User", in.UserID)
	}

	exists, err := s.reviews.Exists(ctx, in.UserID, in.BookID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, violation("user %d has already reviewed book %d", in.UserID, in.BookID)
	}

	review := model.Review{
		Text:      in.Text,
		Rating:    in.Rating,
		BookID:    in.BookID,
		UserID:    in.UserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return s.GetByID(ctx, review.ID)
}

func (s *ReviewService) Update(ctx context.Context, in UpdateReviewInput) (*ReviewDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "Review", in.ID)
	}

	review.Text = in.Text
	review.Rating = in.Rating
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, lookup(err, "Review", in.ID)
	}

	return s.GetByID(ctx, review.ID)
}

func (s *ReviewService) Delete(ctx context.Context, id int) error {
	if err := requirePositive("ID", id); err != nil {
		return err
	}

	if _, err := s.reviews.FindByID(ctx, id); err != nil {
		return lookup(err, "Review", id)
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return lookup(err, "Review", id)
	}
	return nil
}

func (s *ReviewService) ByBook(ctx context.Context, bookID int) ([]ReviewDTO, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of book %d: %w", bookID, err)
	}
	return toReviewDTOs(reviews), nil
}

func (s *ReviewService) ByUser(ctx context.Context, userID int) ([]ReviewDTO, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of user %d: %w", userID, err)
	}
	return toReviewDTOs(reviews), nil
}

// AverageRating is the mean rating of the book rounded to one decimal place,
// or 0 when it has no reviews.
func (s *ReviewService) AverageRating(ctx context.Context, bookID int) (float64, error) {
	st, err := s.bookStats(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return roundRating(st.Average), nil
}

func (s *ReviewService) CountForBook(ctx context.Context, bookID int) (int64, error) {
	st, err := s.bookStats(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return st.Count, nil
}

func (s *ReviewService) HasReviewed(ctx context.Context, userID, bookID int) (bool, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return false, err
	}

	exists, err := s.reviews.Exists(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return exists, nil
}

// Recent returns the count most recently created reviews, newest first.
func (s *ReviewService) Recent(ctx context.Context, count int) ([]ReviewDTO, error) {
	if count < 1 || count > maxRecentReviews {
		return nil, fieldError("Count", fmt.Sprintf("Count must be between 1 and %d", maxRecentReviews))
	}

	reviews, err := s.reviews.Recent(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	return toReviewDTOs(reviews), nil
}

func (s *ReviewService) bookStats(ctx context.Context, bookID int) (model.RatingStat, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return model.RatingStat{}, err
	}

	stats, err := s.reviews.RatingStats(ctx, []int{bookID})
	if err != nil {
		return model.RatingStat{}, fmt.Errorf("load rating stats: %w", err)
	}
	return stats[bookID], nil
}

func (s *ReviewService) requireBook(ctx context.Context, bookID int) error {
	if err := requirePositive("BookID", bookID); err != nil {
		return err
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return lookup(err, "Book", bookID)
	}
	return nil
}

func (s *ReviewService) requireUser(ctx context.Context, userID int) error {
	if err := requirePositive("UserID", userID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return lookup(err, "User", userID)
	}
	return nil
}

func toReviewDTO(r model.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		BookID:    r.BookID,
		BookTitle: r.Book.Title,
		UserID:    r.UserID,
		Username:  r.User.Username,
	}
}

func toReviewDTOs(reviews []model.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		dtos = append(dtos, toReviewDTO(r))
	}
	return dtos
}
