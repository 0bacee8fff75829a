package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/repository"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

type CreateBookInput struct {
	Title           string `json:"title" validate:"required,notblank,min=2,max=200"`
	Description     string `json:"description" validate:"required,notblank,min=10,max=2000"`
	PublicationYear int    `json:"publication_year" validate:"publication_year"`
	CoverImageURL   string `json:"cover_image_url" validate:"omitempty,max=500,web_url"`
	AuthorID        int    `json:"author_id" validate:"gt=0"`
	GenreIDs        []int  `json:"genre_ids" validate:"required,min=1,max=5,unique,dive,gt=0"`
}

// UpdateBookInput replaces every mutable field. An empty GenreIDs keeps the
// current genres.
type UpdateBookInput struct {
	ID              int    `json:"id" validate:"gt=0"`
	Title           string `json:"title" validate:"required,notblank,min=2,max=200"`
	Description     string `json:"description" validate:"required,notblank,min=10,max=2000"`
	PublicationYear int    `json:"publication_year" validate:"publication_year"`
	CoverImageURL   string `json:"cover_image_url" validate:"omitempty,max=500,web_url"`
	AuthorID        int    `json:"author_id" validate:"gt=0"`
	GenreIDs        []int  `json:"genre_ids" validate:"omitempty,max=5,unique,dive,gt=0"`
}

type BookSearchInput struct {
	Title      string `form:"title" validate:"max=100"`
	AuthorName string `form:"author" validate:"max=100"`
	GenreName  string `form:"genre" validate:"max=50"`
	MinYear    *int   `form:"min_year" validate:"omitempty,past_year"`
	MaxYear    *int   `form:"max_year" validate:"omitempty,past_year"`
	Page       int    `form:"page" validate:"gt=0"`
	PageSize   int    `form:"page_size" validate:"min=1,max=100"`
}

func (in BookSearchInput) ValidateCrossField(errs validation.Errors) {
	if in.MinYear != nil && in.MaxYear != nil && *in.MaxYear < *in.MinYear {
		errs.Add("MaxYear", "MaxYear must be greater than or equal to MinYear")
	}
}

type BookDTO struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PublicationYear int      `json:"publication_year"`
	CoverImageURL   string   `json:"cover_image_url"`
	AuthorID        int      `json:"author_id"`
	AuthorName      string   `json:"author_name"`
	Genres          []string `json:"genres"`
	AverageRating   float64  `json:"average_rating"`
	ReviewCount     int64    `json:"review_count"`
}

type BookSearchResult struct {
	Books      []BookDTO `json:"books"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

type BookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
	genres  repository.GenreRepository
	reviews repository.ReviewRepository
}

func NewBookService(
	books repository.BookRepository,
	authors repository.AuthorRepository,
	genres repository.GenreRepository,
	reviews repository.ReviewRepository,
) *BookService {
	return &BookService{
		books:   books,
		authors: authors,
		genres:  genres,
		reviews: reviews,
	}
}

func (s *BookService) List(ctx context.Context) ([]BookDTO, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return decorateBooks(ctx, s.reviews, books)
}

func (s *BookService) GetByID(ctx context.Context, id int) (*BookDTO, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Book", id)
	}
	return s.decorateOne(ctx, *book)
}

func (s *BookService) Create(ctx context.Context, in CreateBookInput) (*BookDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	author, err := s.authors.FindByID(ctx, in.AuthorID)
	if err != nil {
		return nil, lookup(err, "Author", in.AuthorID)
	}

	genres, err := s.resolveGenres(ctx, in.GenreIDs)
	if err != nil {
		return nil, err
	}

	book := model.Book{
		Title:           in.Title,
		Description:     in.Description,
		PublicationYear: in.PublicationYear,
		CoverImageURL:   in.CoverImageURL,
		AuthorID:        author.ID,
		Genres:          genres,
	}
	if err := s.books.Create(ctx, &book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	book.Author = *author

	return s.decorateOne(ctx, book)
}

func (s *BookService) Update(ctx context.Context, in UpdateBookInput) (*BookDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	book, err := s.books.FindByID(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "Book", in.ID)
	}

	if in.AuthorID != book.AuthorID {
		author, err := s.authors.FindByID(ctx, in.AuthorID)
		if err != nil {
			return nil, lookup(err, "Author", in.AuthorID)
		}
		book.AuthorID = author.ID
		book.Author = *author
	}

	var genres []model.Genre
	if len(in.GenreIDs) > 0 {
		if genres, err = s.resolveGenres(ctx, in.GenreIDs); err != nil {
			return nil, err
		}
		book.Genres = genres
	}

	book.Title = in.Title
	book.Description = in.Description
	book.PublicationYear = in.PublicationYear
	book.CoverImageURL = in.CoverImageURL

	if err := s.books.Update(ctx, book, genres); err != nil {
		return nil, lookup(err, "Book", in.ID)
	}

	return s.decorateOne(ctx, *book)
}

// Delete refuses to remove a book that has reviews.
func (s *BookService) Delete(ctx context.Context, id int) error {
	if _, err := s.books.FindByID(ctx, id); err != nil {
		return lookup(err, "Book", id)
	}

	stats, err := s.reviews.RatingStats(ctx, []int{id})
	if err != nil {
		return fmt.Errorf("count reviews of book %d: %w", id, err)
	}
	if n := stats[id].Count; n > 0 {
		return violation("book %d has %d review(s) and cannot be deleted", id, n)
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return lookup(err, "Book", id)
	}
	return nil
}

// Search matches a substring of the title.
func (s *BookService) Search(ctx context.Context, term string) ([]BookDTO, error) {
	return s.filter(ctx, "SearchTerm", term, repository.BookFilter{Title: term})
}

func (s *BookService) ByAuthorName(ctx context.Context, name string) ([]BookDTO, error) {
	return s.filter(ctx, "AuthorName", name, repository.BookFilter{AuthorName: name})
}

func (s *BookService) ByGenreName(ctx context.Context, name string) ([]BookDTO, error) {
	return s.filter(ctx, "GenreName", name, repository.BookFilter{GenreName: name})
}

// SearchAdvanced combines the optional criteria with AND and returns the
// requested page together with the total number of matches.
func (s *BookService) SearchAdvanced(ctx context.Context, in BookSearchInput) (*BookSearchResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	page, err := s.books.Search(ctx, repository.BookFilter{
		Title:      in.Title,
		AuthorName: in.AuthorName,
		GenreName:  in.GenreName,
		MinYear:    in.MinYear,
		MaxYear:    in.MaxYear,
		Offset:     (in.Page - 1) * in.PageSize,
		Limit:      in.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	dtos, err := decorateBooks(ctx, s.reviews, page.Books)
	if err != nil {
		return nil, err
	}

	return &BookSearchResult{
		Books:      dtos,
		Page:       in.Page,
		PageSize:   in.PageSize,
		TotalCount: page.Total,
		TotalPages: int((page.Total + int64(in.PageSize) - 1) / int64(in.PageSize)),
	}, nil
}

func (s *BookService) filter(ctx context.Context, field, term string, f repository.BookFilter) ([]BookDTO, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fieldError(field, field+" is required")
	}
	if len([]rune(term)) > 100 {
		return nil, fieldError(field, field+" must be at most 100 characters")
	}

	page, err := s.books.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return decorateBooks(ctx, s.reviews, page.Books)
}

// resolveGenres loads every id or fails with a ValidationError naming the
// ids that do not exist.
func (s *BookService) resolveGenres(ctx context.Context, ids []int) ([]model.Genre, error) {
	genres, err := s.genres.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	found := make(map[int]bool, len(genres))
	for _, g := range genres {
		found[g.ID] = true
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return nil, fieldError("GenreIDs", "genres not found: "+strings.Join(missing, ", "))
	}

	return genres, nil
}

func (s *BookService) decorateOne(ctx context.Context, book model.Book) (*BookDTO, error) {
	dtos, err := decorateBooks(ctx, s.reviews, []model.Book{book})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// decorateBooks maps books to DTOs carrying their rounded average rating and
// review count. Books must have Author and Genres loaded.
func decorateBooks(ctx context.Context, reviews repository.ReviewRepository, books []model.Book) ([]BookDTO, error) {
	ids := make([]int, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	stats, err := reviews.RatingStats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load rating stats: %w", err)
	}

	dtos := make([]BookDTO, 0, len(books))
	for _, b := range books {
		genres := make([]string, 0, len(b.Genres))
		for _, g := range b.Genres {
			genres = append(genres, g.Name)
		}
		sort.Strings(genres)

		st := stats[b.ID]
		dtos = append(dtos, BookDTO{
			ID:              b.ID,
			Title:           b.Title,
			Description:     b.Description,
			PublicationYear: b.PublicationYear,
			CoverImageURL:   b.CoverImageURL,
			AuthorID:        b.AuthorID,
			AuthorName:      b.Author.FullName,
			Genres:          genres,
			AverageRating:   roundRating(st.Average),
			ReviewCount:     st.Count,
		})
	}
	return dtos, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
