package handler

import (
	"net/http"
	"testing"

	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/testutil"
)

func TestCreateGenre_DuplicateName(t *testing.T) {
	router := setupTestRouter(testutil.NewTestDB(t))

	w := doJSON(t, router, http.MethodPost, "/api/genres", service.CreateGenreInput{Name: "Sci-Fi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/genres", service.CreateGenreInput{Name: "Sci-Fi"})
	resp := expectError(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	if !hasFieldError(resp, "Name") {
		t.Fatalf("expected Name error, got %+v", resp.Errors)
	}
}

func TestGenreRoutes(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.SeedAuthor(t, db, "George Orwell")
	dystopia := testutil.SeedGenre(t, db, "Dystopia")
	testutil.SeedGenre(t, db, "Poetry")
	testutil.SeedBook(t, db, author, "Animal Farm", 1945, dystopia)
	router := setupTestRouter(db)

	w := doJSON(t, router, http.MethodGet, "/api/genres/popular/1", nil)
	var popular ListGenresResponse
	decode(t, w, &popular)
	if len(popular.Data) != 1 || popular.Data[0].Name != "Dystopia" {
		t.Fatalf("expected Dystopia as most popular, got %+v", popular.Data)
	}

	w = doJSON(t, router, http.MethodGet, "/api/genres/search/poe", nil)
	var found ListGenresResponse
	decode(t, w, &found)
	if len(found.Data) != 1 || found.Data[0].Name != "Poetry" {
		t.Fatalf("expected Poetry, got %+v", found.Data)
	}

	w = doJSON(t, router, http.MethodGet, "/api/genres/1/in-use", nil)
	var inUse FlagResponse
	decode(t, w, &inUse)
	if !inUse.Data["in_use"] {
		t.Fatalf("expected Dystopia to be in use, got %v", inUse.Data)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/genres/1", nil)
	expectError(t, w, http.StatusConflict, "BUSINESS_RULE_VIOLATION")

	w = doJSON(t, router, http.MethodDelete, "/api/genres/2", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d, body=%s", w.Code, w.Body.String())
	}
}
