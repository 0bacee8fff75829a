package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"gorm.io/gorm"
)

type fakeAuthorService struct {
	ListFn    func(ctx context.Context) ([]service.AuthorDTO, error)
	GetByIDFn func(ctx context.Context, id int) (*service.AuthorDetail, error)
	CreateFn  func(ctx context.Context, in service.CreateAuthorInput) (*service.AuthorDTO, error)
	UpdateFn  func(ctx context.Context, in service.UpdateAuthorInput) (*service.AuthorDTO, error)
	DeleteFn  func(ctx context.Context, id int) error
}

func (f *fakeAuthorService) List(ctx context.Context) ([]service.AuthorDTO, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeAuthorService) GetByID(ctx context.Context, id int) (*service.AuthorDetail, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, &service.NotFoundError{Entity: "Author", Key: id}
}

func (f *fakeAuthorService) Create(ctx context.Context, in service.CreateAuthorInput) (*service.AuthorDTO, error) {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, in)
	}
	return &service.AuthorDTO{ID: 1, FullName: in.FullName, Biography: in.Biography}, nil
}

func (f *fakeAuthorService) Update(ctx context.Context, in service.UpdateAuthorInput) (*service.AuthorDTO, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, in)
	}
	return &service.AuthorDTO{ID: in.ID, FullName: in.FullName, Biography: in.Biography}, nil
}

func (f *fakeAuthorService) Delete(ctx context.Context, id int) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func setupAuthorRouterWithService(svc AuthorService) http.Handler {
	return setupRouterWithServices(Services{Authors: svc})
}

func TestListAuthors_InternalError(t *testing.T) {
	router := setupAuthorRouterWithService(&fakeAuthorService{
		ListFn: func(ctx context.Context) ([]service.AuthorDTO, error) {
			return nil, errors.New("db is down")
		},
	})

	w := doJSON(t, router, http.MethodGet, "/api/authors", nil)

	resp := expectError(t, w, http.StatusInternalServerError, "AUTHOR_LIST_FAILED")
	if resp.Message != "internal server error" {
		t.Fatalf("expected internal details to be hidden, got %q", resp.Message)
	}
}

func TestCreateAuthor_ConstraintViolation(t *testing.T) {
	router := setupAuthorRouterWithService(&fakeAuthorService{
		CreateFn: func(ctx context.Context, in service.CreateAuthorInput) (*service.AuthorDTO, error) {
			return nil, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
		},
	})

	w := doJSON(t, router, http.MethodPost, "/api/authors", service.CreateAuthorInput{
		FullName:  "Frank Herbert",
		Biography: "Wrote about sand.",
	})

	expectError(t, w, http.StatusConflict, "CONSTRAINT_VIOLATION")
}

func TestCreateAuthor_TranslatedConstraintErrors(t *testing.T) {
	for _, cause := range []error{gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated} {
		router := setupAuthorRouterWithService(&fakeAuthorService{
			CreateFn: func(ctx context.Context, in service.CreateAuthorInput) (*service.AuthorDTO, error) {
				return nil, fmt.Errorf("create author: %w", cause)
			},
		})

		w := doJSON(t, router, http.MethodPost, "/api/authors", service.CreateAuthorInput{
			FullName:  "Frank Herbert",
			Biography: "Wrote about sand.",
		})

		expectError(t, w, http.StatusConflict, "CONSTRAINT_VIOLATION")
	}
}

func TestUpdateAuthor_UsesPathID(t *testing.T) {
	var gotID int
	router := setupAuthorRouterWithService(&fakeAuthorService{
		UpdateFn: func(ctx context.Context, in service.UpdateAuthorInput) (*service.AuthorDTO, error) {
			gotID = in.ID
			return &service.AuthorDTO{ID: in.ID, FullName: in.FullName}, nil
		},
	})

	w := doJSON(t, router, http.MethodPut, "/api/authors/7", map[string]any{
		"id":        99,
		"full_name": "Frank Herbert",
		"biography": "Wrote about sand.",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if gotID != 7 {
		t.Fatalf("expected path id 7 to win, got %d", gotID)
	}
}

func TestGetAuthor_NotFoundMessage(t *testing.T) {
	router := setupAuthorRouterWithService(&fakeAuthorService{})

	w := doJSON(t, router, http.MethodGet, "/api/authors/3", nil)

	resp := expectError(t, w, http.StatusNotFound, "NOT_FOUND")
	if resp.Message != "Author (3) was not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
