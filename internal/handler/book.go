package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type BookService interface {
	List(ctx context.Context) ([]service.BookDTO, error)
	GetByID(ctx context.Context, id int) (*service.BookDTO, error)
	Create(ctx context.Context, in service.CreateBookInput) (*service.BookDTO, error)
	Update(ctx context.Context, in service.UpdateBookInput) (*service.BookDTO, error)
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, term string) ([]service.BookDTO, error)
	ByAuthorName(ctx context.Context, name string) ([]service.BookDTO, error)
	ByGenreName(ctx context.Context, name string) ([]service.BookDTO, error)
	SearchAdvanced(ctx context.Context, in service.BookSearchInput) (*service.BookSearchResult, error)
}

type BookHandler struct {
	svc BookService
}

func NewBookHandler(svc BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/search", h.SearchBooks)
		books.GET("/by-author", h.BooksByAuthor)
		books.GET("/by-genre", h.BooksByGenre)
		books.GET("/advanced-search", h.AdvancedSearch)
		books.GET("/:id", h.GetBookByID)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// ListBooks godoc
// @Summary      List books
// @Description  Get all books ordered by ID, with author, genres and rating
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "BOOK_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListBooksResponse{Data: books})
}

// GetBookByID godoc
// @Summary      Get book by ID
// @Tags         books
// @Produce      json
// @Param        id   path      int                       true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Book not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "BOOK_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: *book})
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a book for an existing author, tagged with 1 to 5 existing genres
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookInput   true  "Book to create"
// @Success      201      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse  "Validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Author not found"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req service.CreateBookInput
	if !validation.BindJSON(c, &req) {
		return
	}

	book, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "BOOK_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Data: *book})
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Replace the fields of a book. An empty genre_ids keeps the current genres.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Book ID"
// @Param        payload  body      service.UpdateBookInput   true  "Book fields"
// @Success      200      {object}  BookResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "Book or author not found"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateBookInput
	if !validation.BindJSON(c, &req) {
		return
	}
	req.ID = id

	book, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "BOOK_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, BookResponse{Data: *book})
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Delete a book that has no reviews
// @Tags         books
// @Produce      json
// @Param        id   path      int                       true  "Book ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "Book not found"
// @Failure      409  {object}  validation.ErrorResponse  "Book has reviews"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "BOOK_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchBooks godoc
// @Summary      Search books by title
// @Tags         books
// @Produce      json
// @Param        q    query     string                    true  "Title substring"
// @Success      200  {object}  ListBooksResponse
// @Failure      400  {object}  validation.ErrorResponse  "Missing or too long term"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	h.listBy(c, h.svc.Search, c.Query("q"))
}

// BooksByAuthor godoc
// @Summary      Find books by author name
// @Tags         books
// @Produce      json
// @Param        name  query     string                    true  "Author name substring"
// @Success      200   {object}  ListBooksResponse
// @Failure      400   {object}  validation.ErrorResponse  "Missing or too long name"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/by-author [get]
func (h *BookHandler) BooksByAuthor(c *gin.Context) {
	h.listBy(c, h.svc.ByAuthorName, c.Query("name"))
}

// BooksByGenre godoc
// @Summary      Find books by genre name
// @Tags         books
// @Produce      json
// @Param        name  query     string                    true  "Genre name substring"
// @Success      200   {object}  ListBooksResponse
// @Failure      400   {object}  validation.ErrorResponse  "Missing or too long name"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/by-genre [get]
func (h *BookHandler) BooksByGenre(c *gin.Context) {
	h.listBy(c, h.svc.ByGenreName, c.Query("name"))
}

func (h *BookHandler) listBy(
	c *gin.Context,
	find func(context.Context, string) ([]service.BookDTO, error),
	term string,
) {
	books, err := find(c.Request.Context(), term)
	if err != nil {
		writeServiceError(c, err, "BOOK_SEARCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListBooksResponse{Data: books})
}

// AdvancedSearch godoc
// @Summary      Advanced book search
// @Description  Combine optional title, author, genre and year filters and page through the matches
// @Tags         books
// @Produce      json
// @Param        title      query     string  false  "Title substring"
// @Param        author     query     string  false  "Author name substring"
// @Param        genre      query     string  false  "Genre name substring"
// @Param        min_year   query     int     false  "Earliest publication year"
// @Param        max_year   query     int     false  "Latest publication year"
// @Param        page       query     int     false  "Page number"     default(1) minimum(1)
// @Param        page_size  query     int     false  "Items per page"  default(10) minimum(1) maximum(100)
// @Success      200  {object}  SearchBooksResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid query parameters"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /books/advanced-search [get]
func (h *BookHandler) AdvancedSearch(c *gin.Context) {
	in := service.BookSearchInput{
		Title:      c.Query("title"),
		AuthorName: c.Query("author"),
		GenreName:  c.Query("genre"),
	}

	var ok bool
	if in.MinYear, ok = parseOptionalIntQuery(c, "min_year"); !ok {
		return
	}
	if in.MaxYear, ok = parseOptionalIntQuery(c, "max_year"); !ok {
		return
	}
	if in.Page, ok = parseIntQuery(c, "page", defaultPage); !ok {
		return
	}
	if in.PageSize, ok = parseIntQuery(c, "page_size", defaultPageSize); !ok {
		return
	}

	res, err := h.svc.SearchAdvanced(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err, "BOOK_SEARCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, SearchBooksResponse{
		Data: res.Books,
		Pagination: Pagination{
			Page:       res.Page,
			PageSize:   res.PageSize,
			Total:      res.TotalCount,
			TotalPages: res.TotalPages,
		},
	})
}
