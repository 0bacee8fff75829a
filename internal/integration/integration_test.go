//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/config"
	"github.com/snnyvrz/bookcatalog/internal/db"
	"github.com/snnyvrz/bookcatalog/internal/handler"
	"gorm.io/gorm"
)

var (
	testDB     *gorm.DB
	testRouter *gin.Engine
)

func TestMain(m *testing.M) {
	cfg := config.Load()
	cfg.DBDriver = config.DriverPostgres
	cfg.DBMaxAttempts = 3

	database, err := db.Connect(context.Background(), cfg)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	testDB = database

	if err := db.Migrate(database); err != nil {
		panic("failed to migrate: " + err.Error())
	}

	gin.SetMode(gin.TestMode)
	r := gin.Default()

	handler.RegisterAPI(r.Group("/api"), handler.NewServices(database, auth.NewIssuer("integration", time.Hour)))

	testRouter = r

	code := m.Run()
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	sqlDB, err := testDB.DB()
	if err != nil {
		t.Fatalf("get sql.DB failed: %v", err)
	}
	_, err = sqlDB.Exec("TRUNCATE TABLE reviews, book_genres, books, genres, authors, users RESTART IDENTITY CASCADE;")
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
}

func post(t *testing.T, client *http.Client, url string, payload any, wantStatus int) map[string]any {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("expected %d from %s, got %d", wantStatus, url, resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func dataID(t *testing.T, body map[string]any) int {
	t.Helper()

	id, ok := body["data"].(map[string]any)["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("expected id in response, got %v", body["data"])
	}
	return int(id)
}

func TestCatalogFlow_Integration(t *testing.T) {
	resetDB(t)

	srv := httptest.NewServer(testRouter)
	defer srv.Close()

	client := srv.Client()

	authorID := dataID(t, post(t, client, srv.URL+"/api/authors", map[string]any{
		"full_name": "Ursula K. Le Guin",
		"biography": "American author of speculative fiction.",
	}, http.StatusCreated))

	genreID := dataID(t, post(t, client, srv.URL+"/api/genres", map[string]any{
		"name": "Science Fiction",
	}, http.StatusCreated))

	bookID := dataID(t, post(t, client, srv.URL+"/api/books", map[string]any{
		"title":            "The Dispossessed",
		"description":      "An ambiguous utopia on twin worlds.",
		"publication_year": 1974,
		"author_id":        authorID,
		"genre_ids":        []int{genreID},
	}, http.StatusCreated))

	userID := dataID(t, post(t, client, srv.URL+"/api/users/register", map[string]any{
		"username": "ann",
		"email":    "ann@example.com",
		"password": "secret1",
		"role":     "User",
	}, http.StatusCreated))

	review := map[string]any{
		"text":    "Quietly radical and humane.",
		"rating":  5,
		"book_id": bookID,
		"user_id": userID,
	}
	post(t, client, srv.URL+"/api/reviews", review, http.StatusCreated)
	post(t, client, srv.URL+"/api/reviews", review, http.StatusConflict)

	resp, err := client.Get(fmt.Sprintf("%s/api/reviews/book/%d/average-rating", srv.URL, bookID))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var avg map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&avg); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if avg["data"].(map[string]any)["average_rating"] != 5.0 {
		t.Errorf("expected average 5.0, got %v", avg["data"])
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/books/%d", srv.URL, bookID), nil)
	delResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer delResp.Body.Close()

	if delResp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 deleting a reviewed book, got %d", delResp.StatusCode)
	}
}

func TestAdvancedSearch_Integration(t *testing.T) {
	resetDB(t)

	srv := httptest.NewServer(testRouter)
	defer srv.Close()

	client := srv.Client()

	if err := db.Seed(context.Background(), testDB); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	resp, err := client.Get(srv.URL + "/api/books/advanced-search?author=orwell&page_size=1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data       []map[string]any   `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if len(body.Data) != 1 {
		t.Fatalf("expected one book per page, got %d", len(body.Data))
	}
	if body.Pagination.Total < 2 || body.Pagination.TotalPages != int(body.Pagination.Total) {
		t.Errorf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestGenreSearchFoldsCyrillicCase_Integration(t *testing.T) {
	resetDB(t)

	srv := httptest.NewServer(testRouter)
	defer srv.Close()

	client := srv.Client()

	post(t, client, srv.URL+"/api/genres", map[string]any{"name": "Фантастика"}, http.StatusCreated)

	resp, err := client.Get(srv.URL + "/api/genres/search/%D1%84%D0%B0%D0%BD%D1%82")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0]["name"] != "Фантастика" {
		t.Fatalf("expected lowercase term to match, got %+v", body.Data)
	}
}
