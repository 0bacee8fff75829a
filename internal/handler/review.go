package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

type ReviewService interface {
	List(ctx context.Context) ([]service.ReviewDTO, error)
	GetByID(ctx context.Context, id int) (*service.ReviewDTO, error)
	Create(ctx context.Context, in service.CreateReviewInput) (*service.ReviewDTO, error)
	Update(ctx context.Context, in service.UpdateReviewInput) (*service.ReviewDTO, error)
	Delete(ctx context.Context, id int) error
	ByBook(ctx context.Context, bookID int) ([]service.ReviewDTO, error)
	ByUser(ctx context.Context, userID int) ([]service.ReviewDTO, error)
	AverageRating(ctx context.Context, bookID int) (float64, error)
	CountForBook(ctx context.Context, bookID int) (int64, error)
	HasReviewed(ctx context.Context, userID, bookID int) (bool, error)
	Recent(ctx context.Context, count int) ([]service.ReviewDTO, error)
}

type ReviewHandler struct {
	svc ReviewService
}

func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/recent/:count", h.RecentReviews)
		reviews.GET("/book/:bookId", h.ReviewsByBook)
		reviews.GET("/book/:bookId/average-rating", h.AverageRating)
		reviews.GET("/book/:bookId/count", h.ReviewCount)
		reviews.GET("/user/:userId", h.ReviewsByUser)
		reviews.GET("/user/:userId/book/:bookId/has-reviewed", h.HasReviewed)
		reviews.GET("/:id", h.GetReviewByID)
		reviews.PUT("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}
}

// ListReviews godoc
// @Summary      List reviews
// @Description  Get all reviews, newest first
// @Tags         reviews
// @Produce      json
// @Success      200  {object}  ListReviewsResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListReviewsResponse{Data: reviews})
}

// GetReviewByID godoc
// @Summary      Get review by ID
// @Tags         reviews
// @Produce      json
// @Param        id   path      int                       true  "Review ID"
// @Success      200  {object}  ReviewResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Review not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetReviewByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "REVIEW_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{Data: *review})
}

// CreateReview godoc
// @Summary      Review a book
// @Description  A user may review each book once
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReviewInput  true  "Review to create"
// @Success      201      {object}  ReviewResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      404      {object}  validation.ErrorResponse   "Book or user not found"
// @Failure      409      {object}  validation.ErrorResponse   "Book already reviewed by user"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req service.CreateReviewInput
	if !validation.BindJSON(c, &req) {
		return
	}

	review, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "REVIEW_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, ReviewResponse{Data: *review})
}

// UpdateReview godoc
// @Summary      Update a review
// @Description  Change the text and rating of a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Review ID"
// @Param        payload  body      service.UpdateReviewInput  true  "Review fields"
// @Success      200      {object}  ReviewResponse
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse   "Review not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateReviewInput
	if !validation.BindJSON(c, &req) {
		return
	}
	req.ID = id

	review, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "REVIEW_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{Data: *review})
}

// DeleteReview godoc
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      int                       true  "Review ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Review not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "REVIEW_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReviewsByBook godoc
// @Summary      Reviews of a book
// @Tags         reviews
// @Produce      json
// @Param        bookId  path      int                       true  "Book ID"
// @Success      200     {object}  ListReviewsResponse
// @Failure      400     {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse  "Book not found"
// @Failure      500     {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/book/{bookId} [get]
func (h *ReviewHandler) ReviewsByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	reviews, err := h.svc.ByBook(c.Request.Context(), bookID)
	if err != nil {
		writeServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListReviewsResponse{Data: reviews})
}

// ReviewsByUser godoc
// @Summary      Reviews written by a user
// @Tags         reviews
// @Produce      json
// @Param        userId  path      int                       true  "User ID"
// @Success      200     {object}  ListReviewsResponse
// @Failure      400     {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse  "User not found"
// @Failure      500     {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/user/{userId} [get]
func (h *ReviewHandler) ReviewsByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	reviews, err := h.svc.ByUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListReviewsResponse{Data: reviews})
}

// AverageRating godoc
// @Summary      Average rating of a book
// @Description  Mean rating rounded to one decimal place, 0 when the book has no reviews
// @Tags         reviews
// @Produce      json
// @Param        bookId  path      int                       true  "Book ID"
// @Success      200     {object}  AverageRatingResponse
// @Failure      400     {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse  "Book not found"
// @Failure      500     {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/book/{bookId}/average-rating [get]
func (h *ReviewHandler) AverageRating(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	avg, err := h.svc.AverageRating(c.Request.Context(), bookID)
	if err != nil {
		writeServiceError(c, err, "REVIEW_RATING_FAILED")
		return
	}

	c.JSON(http.StatusOK, AverageRatingResponse{
		Data: AverageRating{BookID: bookID, AverageRating: avg},
	})
}

// ReviewCount godoc
// @Summary      Number of reviews of a book
// @Tags         reviews
// @Produce      json
// @Param        bookId  path      int                       true  "Book ID"
// @Success      200     {object}  ReviewCountResponse
// @Failure      400     {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse  "Book not found"
// @Failure      500     {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/book/{bookId}/count [get]
func (h *ReviewHandler) ReviewCount(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	n, err := h.svc.CountForBook(c.Request.Context(), bookID)
	if err != nil {
		writeServiceError(c, err, "REVIEW_COUNT_FAILED")
		return
	}

	c.JSON(http.StatusOK, ReviewCountResponse{
		Data: ReviewCount{BookID: bookID, ReviewCount: n},
	})
}

// HasReviewed godoc
// @Summary      Has a user reviewed a book
// @Tags         reviews
// @Produce      json
// @Param        userId  path      int                       true  "User ID"
// @Param        bookId  path      int                       true  "Book ID"
// @Success      200     {object}  FlagResponse
// @Failure      400     {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404     {object}  validation.ErrorResponse  "User or book not found"
// @Failure      500     {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/user/{userId}/book/{bookId}/has-reviewed [get]
func (h *ReviewHandler) HasReviewed(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	reviewed, err := h.svc.HasReviewed(c.Request.Context(), userID, bookID)
	if err != nil {
		writeServiceError(c, err, "REVIEW_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, flag("has_reviewed", reviewed))
}

// RecentReviews godoc
// @Summary      Most recent reviews
// @Tags         reviews
// @Produce      json
// @Param        count  path      int                       true  "Number of reviews (1-50)"
// @Success      200    {object}  ListReviewsResponse
// @Failure      400    {object}  validation.ErrorResponse  "Count out of range"
// @Failure      500    {object}  validation.ErrorResponse  "Internal server error"
// @Router       /reviews/recent/{count} [get]
func (h *ReviewHandler) RecentReviews(c *gin.Context) {
	count, ok := parseIDParam(c, "count")
	if !ok {
		return
	}

	reviews, err := h.svc.Recent(c.Request.Context(), count)
	if err != nil {
		writeServiceError(c, err, "REVIEW_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListReviewsResponse{Data: reviews})
}
