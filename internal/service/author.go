package service

import (
	"context"
	"fmt"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/repository"
)

type CreateAuthorInput struct {
	FullName  string `json:"full_name" validate:"required,notblank,min=2,max=100"`
	Biography string `json:"biography" validate:"required,notblank,min=10,max=2000"`
}

type UpdateAuthorInput struct {
	ID        int    `json:"id" validate:"gt=0"`
	FullName  string `json:"full_name" validate:"required,notblank,min=2,max=100"`
	Biography string `json:"biography" validate:"required,notblank,min=10,max=2000"`
}

type AuthorDTO struct {
	ID        int    `json:"id"`
	FullName  string `json:"full_name"`
	Biography string `json:"biography"`
	BookCount int64  `json:"book_count"`
}

type AuthorDetail struct {
	ID        int       `json:"id"`
	FullName  string    `json:"full_name"`
	Biography string    `json:"biography"`
	Books     []BookDTO `json:"books"`
}

type AuthorService struct {
	authors repository.AuthorRepository
	reviews repository.ReviewRepository
}

func NewAuthorService(authors repository.AuthorRepository, reviews repository.ReviewRepository) *AuthorService {
	return &AuthorService{authors: authors, reviews: reviews}
}

func (s *AuthorService) List(ctx context.Context) ([]AuthorDTO, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	ids := make([]int, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.authors.BookCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	dtos := make([]AuthorDTO, 0, len(authors))
	for _, a := range authors {
		dtos = append(dtos, toAuthorDTO(a, counts[a.ID]))
	}
	return dtos, nil
}

// GetByID returns the author with every book decorated by its rating.
func (s *AuthorService) GetByID(ctx context.Context, id int) (*AuthorDetail, error) {
	author, err := s.authors.FindWithBooks(ctx, id)
	if err != nil {
		return nil, lookup(err, "Author", id)
	}

	for i := range author.Books {
		author.Books[i].Author = *author
	}
	books, err := decorateBooks(ctx, s.reviews, author.Books)
	if err != nil {
		return nil, err
	}

	return &AuthorDetail{
		ID:        author.ID,
		FullName:  author.FullName,
		Biography: author.Biography,
		Books:     books,
	}, nil
}

func (s *AuthorService) Create(ctx context.Context, in CreateAuthorInput) (*AuthorDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	author := model.Author{
		FullName:  in.FullName,
		Biography: in.Biography,
	}
	if err := s.authors.Create(ctx, &author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	dto := toAuthorDTO(author, 0)
	return &dto, nil
}

func (s *AuthorService) Update(ctx context.Context, in UpdateAuthorInput) (*AuthorDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	author, err := s.authors.FindByID(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "Author", in.ID)
	}

	author.FullName = in.FullName
	author.Biography = in.Biography
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, lookup(err, "Author", in.ID)
	}

	counts, err := s.authors.BookCounts(ctx, []int{author.ID})
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	dto := toAuthorDTO(*author, counts[author.ID])
	return &dto, nil
}

// Delete refuses to remove an author who still has books.
func (s *AuthorService) Delete(ctx context.Context, id int) error {
	if _, err := s.authors.FindByID(ctx, id); err != nil {
		return lookup(err, "Author", id)
	}

	counts, err := s.authors.BookCounts(ctx, []int{id})
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if n := counts[id]; n > 0 {
		return violation("author %d has %d book(s) and cannot be deleted", id, n)
	}

	if err := s.authors.Delete(ctx, id); err != nil {
		return lookup(err, "Author", id)
	}
	return nil
}

func toAuthorDTO(a model.Author, bookCount int64) AuthorDTO {
	return AuthorDTO{
		ID:        a.ID,
		FullName:  a.FullName,
		Biography: a.Biography,
		BookCount: bookCount,
	}
}
