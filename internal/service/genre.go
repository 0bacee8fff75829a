package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/repository"
	"gorm.io/gorm"
)

const maxPopularGenres = 20

type CreateGenreInput struct {
	Name string `json:"name" validate:"required,notblank,min=2,max=50,genre_name"`
}

type UpdateGenreInput struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required,notblank,min=2,max=50,genre_name"`
}

type GenreDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_count"`
}

type GenreDetail struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Books []BookDTO `json:"books"`
}

type GenreService struct {
	genres  repository.GenreRepository
	books   repository.BookRepository
	reviews repository.ReviewRepository
}

func NewGenreService(
	genres repository.GenreRepository,
	books repository.BookRepository,
	reviews repository.ReviewRepository,
) *GenreService {
	return &GenreService{
		genres:  genres,
		books:   books,
		reviews: reviews,
	}
}

// List returns every genre ordered by name.
func (s *GenreService) List(ctx context.Context) ([]GenreDTO, error) {
	genres, err := s.genres.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return s.withCounts(ctx, genres)
}

func (s *GenreService) GetByID(ctx context.Context, id int) (*GenreDetail, error) {
	genre, err := s.genres.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Genre", id)
	}

	books, err := s.books.ListByGenre(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list books of genre %d: %w", id, err)
	}
	dtos, err := decorateBooks(ctx, s.reviews, books)
	if err != nil {
		return nil, err
	}

	return &GenreDetail{
		ID:    genre.ID,
		Name:  genre.Name,
		Books: dtos,
	}, nil
}

// GetByName matches the name exactly.
func (s *GenreService) GetByName(ctx context.Context, name string) (*GenreDTO, error) {
	genre, err := s.genres.FindByName(ctx, name)
	if err != nil {
		return nil, lookup(err, "Genre", name)
	}
	return s.withCount(ctx, *genre)
}

func (s *GenreService) Create(ctx context.Context, in CreateGenreInput) (*GenreDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	genre := model.Genre{Name: in.Name}
	if err := s.genres.Create(ctx, &genre); err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}

	return &GenreDTO{ID: genre.ID, Name: genre.Name, BookCount: 0}, nil
}

func (s *GenreService) Update(ctx context.Context, in UpdateGenreInput) (*GenreDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	genre, err := s.genres.FindByID(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "Genre", in.ID)
	}

	if err := s.ensureNameFree(ctx, in.Name, genre.ID); err != nil {
		return nil, err
	}

	genre.Name = in.Name
	if err := s.genres.Update(ctx, genre); err != nil {
		return nil, lookup(err, "Genre", in.ID)
	}

	return s.withCount(ctx, *genre)
}

// Delete refuses to remove a genre that is still tagged on a book.
func (s *GenreService) Delete(ctx context.Context, id int) error {
	inUse, err := s.IsInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return violation("genre %d is used by at least one book and cannot be deleted", id)
	}

	if err := s.genres.Delete(ctx, id); err != nil {
		return lookup(err, "Genre", id)
	}
	return nil
}

func (s *GenreService) IsInUse(ctx context.Context, id int) (bool, error) {
	if _, err := s.genres.FindByID(ctx, id); err != nil {
		return false, lookup(err, "Genre", id)
	}

	counts, err := s.genres.BookCounts(ctx, []int{id})
	if err != nil {
		return false, fmt.Errorf("count books of genre %d: %w", id, err)
	}
	return counts[id] > 0, nil
}

// Popular returns up to count genres ordered by descending book count.
func (s *GenreService) Popular(ctx context.Context, count int) ([]GenreDTO, error) {
	if count < 1 || count > maxPopularGenres {
		return nil, fieldError("Count", fmt.Sprintf("Count must be between 1 and %d", maxPopularGenres))
	}

	rows, err := s.genres.Popular(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("popular genres: %w", err)
	}

	dtos := make([]GenreDTO, 0, len(rows))
	for _, r := range rows {
		dtos = append(dtos, GenreDTO{ID: r.ID, Name: r.Name, BookCount: r.BookCount})
	}
	return dtos, nil
}

// Search returns genres whose name contains term, alphabetically.
func (s *GenreService) Search(ctx context.Context, term string) ([]GenreDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fieldError("SearchTerm", "SearchTerm is required")
	}
	if utf8.RuneCountInString(term) < 2 {
		return nil, fieldError("SearchTerm", "SearchTerm must be at least 2 characters")
	}

	genres, err := s.genres.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search genres: %w", err)
	}
	return s.withCounts(ctx, genres)
}

// ensureNameFree fails when a genre other than selfID already owns name.
func (s *GenreService) ensureNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.genres.FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find genre by name: %w", err)
	case existing.ID != selfID:
		return fieldError("Name", fmt.Sprintf("a genre named %q already exists", name))
	}
	return nil
}

func (s *GenreService) withCount(ctx context.Context, genre model.Genre) (*GenreDTO, error) {
	dtos, err := s.withCounts(ctx, []model.Genre{genre})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *GenreService) withCounts(ctx context.Context, genres []model.Genre) ([]GenreDTO, error) {
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}

	counts, err := s.genres.BookCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	dtos := make([]GenreDTO, 0, len(genres))
	for _, g := range genres {
		dtos = append(dtos, GenreDTO{ID: g.ID, Name: g.Name, BookCount: counts[g.ID]})
	}
	return dtos, nil
}
