package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

type GenreService interface {
	List(ctx context.Context) ([]service.GenreDTO, error)
	GetByID(ctx context.Context, id int) (*service.GenreDetail, error)
	GetByName(ctx context.Context, name string) (*service.GenreDTO, error)
	Create(ctx context.Context, in service.CreateGenreInput) (*service.GenreDTO, error)
	Update(ctx context.Context, in service.UpdateGenreInput) (*service.GenreDTO, error)
	Delete(ctx context.Context, id int) error
	IsInUse(ctx context.Context, id int) (bool, error)
	Popular(ctx context.Context, count int) ([]service.GenreDTO, error)
	Search(ctx context.Context, term string) ([]service.GenreDTO, error)
}

type GenreHandler struct {
	svc GenreService
}

func NewGenreHandler(svc GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(r *gin.RouterGroup) {
	genres := r.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.POST("", h.CreateGenre)
		genres.GET("/popular/:count", h.PopularGenres)
		genres.GET("/search/:term", h.SearchGenres)
		genres.GET("/name/:name", h.GetGenreByName)
		genres.GET("/:id", h.GetGenreByID)
		genres.GET("/:id/in-use", h.GenreInUse)
		genres.PUT("/:id", h.UpdateGenre)
		genres.DELETE("/:id", h.DeleteGenre)
	}
}

// ListGenres godoc
// @Summary      List genres
// @Description  Get all genres in alphabetical order with their book counts
// @Tags         genres
// @Produce      json
// @Success      200  {object}  ListGenresResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "GENRE_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListGenresResponse{Data: genres})
}

// GetGenreByID godoc
// @Summary      Get genre by ID
// @Description  Get a genre and the books tagged with it
// @Tags         genres
// @Produce      json
// @Param        id   path      int                       true  "Genre ID"
// @Success      200  {object}  GenreDetailResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Genre not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/{id} [get]
func (h *GenreHandler) GetGenreByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "GENRE_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, GenreDetailResponse{Data: *genre})
}

// GetGenreByName godoc
// @Summary      Get genre by name
// @Description  Exact, case-sensitive lookup by genre name
// @Tags         genres
// @Produce      json
// @Param        name  path      string                    true  "Genre name"
// @Success      200   {object}  GenreResponse
// @Failure      404   {object}  validation.ErrorResponse  "Genre not found"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/name/{name} [get]
func (h *GenreHandler) GetGenreByName(c *gin.Context) {
	genre, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, "GENRE_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, GenreResponse{Data: *genre})
}

// PopularGenres godoc
// @Summary      Most used genres
// @Description  Get up to count genres ordered by number of books, most first
// @Tags         genres
// @Produce      json
// @Param        count  path      int                       true  "Number of genres (1-20)"
// @Success      200    {object}  ListGenresResponse
// @Failure      400    {object}  validation.ErrorResponse  "Count out of range"
// @Failure      500    {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/popular/{count} [get]
func (h *GenreHandler) PopularGenres(c *gin.Context) {
	count, ok := parseIDParam(c, "count")
	if !ok {
		return
	}

	genres, err := h.svc.Popular(c.Request.Context(), count)
	if err != nil {
		writeServiceError(c, err, "GENRE_POPULAR_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListGenresResponse{Data: genres})
}

// SearchGenres godoc
// @Summary      Search genres
// @Description  Case-insensitive substring search over genre names
// @Tags         genres
// @Produce      json
// @Param        term  path      string                    true  "Search term (at least 2 characters)"
// @Success      200   {object}  ListGenresResponse
// @Failure      400   {object}  validation.ErrorResponse  "Term too short"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/search/{term} [get]
func (h *GenreHandler) SearchGenres(c *gin.Context) {
	genres, err := h.svc.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		writeServiceError(c, err, "GENRE_SEARCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListGenresResponse{Data: genres})
}

// GenreInUse godoc
// @Summary      Is a genre in use
// @Description  Reports whether any book is tagged with the genre
// @Tags         genres
// @Produce      json
// @Param        id   path      int                       true  "Genre ID"
// @Success      200  {object}  FlagResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Genre not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/{id}/in-use [get]
func (h *GenreHandler) GenreInUse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	inUse, err := h.svc.IsInUse(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "GENRE_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, flag("in_use", inUse))
}

// CreateGenre godoc
// @Summary      Create a genre
// @Description  Create a genre with a unique name
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateGenreInput  true  "Genre to create"
// @Success      201      {object}  GenreResponse
// @Failure      400      {object}  validation.ErrorResponse  "Validation error or duplicate name"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres [post]
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req service.CreateGenreInput
	if !validation.BindJSON(c, &req) {
		return
	}

	genre, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "GENRE_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, GenreResponse{Data: *genre})
}

// UpdateGenre godoc
// @Summary      Rename a genre
// @Tags         genres
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Genre ID"
// @Param        payload  body      service.UpdateGenreInput  true  "New name"
// @Success      200      {object}  GenreResponse
// @Failure      400      {object}  validation.ErrorResponse  "Validation error or duplicate name"
// @Failure      404      {object}  validation.ErrorResponse  "Genre not found"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/{id} [put]
func (h *GenreHandler) UpdateGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateGenreInput
	if !validation.BindJSON(c, &req) {
		return
	}
	req.ID = id

	genre, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "GENRE_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, GenreResponse{Data: *genre})
}

// DeleteGenre godoc
// @Summary      Delete a genre
// @Description  Delete a genre that no book is tagged with
// @Tags         genres
// @Produce      json
// @Param        id   path      int                       true  "Genre ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Genre not found"
// @Failure      409  {object}  validation.ErrorResponse  "Genre still in use"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /genres/{id} [delete]
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "GENRE_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
