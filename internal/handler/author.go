package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

type AuthorService interface {
	List(ctx context.Context) ([]service.AuthorDTO, error)
	GetByID(ctx context.Context, id int) (*service.AuthorDetail, error)
	Create(ctx context.Context, in service.CreateAuthorInput) (*service.AuthorDTO, error)
	Update(ctx context.Context, in service.UpdateAuthorInput) (*service.AuthorDTO, error)
	Delete(ctx context.Context, id int) error
}

type AuthorHandler struct {
	svc AuthorService
}

func NewAuthorHandler(svc AuthorService) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

func (h *AuthorHandler) RegisterRoutes(r *gin.RouterGroup) {
	authors := r.Group("/authors")
	{
		authors.GET("", h.ListAuthors)
		authors.POST("", h.CreateAuthor)
		authors.GET("/:id", h.GetAuthorByID)
		authors.PUT("/:id", h.UpdateAuthor)
		authors.DELETE("/:id", h.DeleteAuthor)
	}
}

// ListAuthors godoc
// @Summary      List authors
// @Description  Get all authors ordered by name, each with its number of books
// @Tags         authors
// @Produce      json
// @Success      200  {object}  ListAuthorsResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	authors, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "AUTHOR_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListAuthorsResponse{Data: authors})
}

// GetAuthorByID godoc
// @Summary      Get author by ID
// @Description  Get a single author together with their books
// @Tags         authors
// @Produce      json
// @Param        id   path      int                       true  "Author ID"
// @Success      200  {object}  AuthorDetailResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id} [get]
func (h *AuthorHandler) GetAuthorByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, AuthorDetailResponse{Data: *author})
}

// CreateAuthor godoc
// @Summary      Create an author
// @Description  Create a new author with full name and biography
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAuthorInput  true  "Author to create"
// @Success      201      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req service.CreateAuthorInput
	if !validation.BindJSON(c, &req) {
		return
	}

	author, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, AuthorResponse{Data: *author})
}

// UpdateAuthor godoc
// @Summary      Update an author
// @Description  Replace the full name and biography of an existing author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Author ID"
// @Param        payload  body      service.UpdateAuthorInput  true  "Author fields"
// @Success      200      {object}  AuthorResponse
// @Failure      400      {object}  validation.ErrorResponse   "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse   "Author not found"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /authors/{id} [put]
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateAuthorInput
	if !validation.BindJSON(c, &req) {
		return
	}
	req.ID = id

	author, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "AUTHOR_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, AuthorResponse{Data: *author})
}

// DeleteAuthor godoc
// @Summary      Delete an author
// @Description  Delete an author that has no books
// @Tags         authors
// @Produce      json
// @Param        id   path      int                       true  "Author ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Author not found"
// @Failure      409  {object}  validation.ErrorResponse  "Author still has books"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "AUTHOR_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
