package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/testutil"
)

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	router := setupTestRouter(testutil.NewTestDB(t))

	body := service.CreateUserInput{
		Username: "ann",
		Email:    "a@x.com",
		Password: "secret1",
		Role:     "User",
	}

	w := doJSON(t, router, http.MethodPost, "/api/users/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp UserResponse
	decode(t, w, &resp)
	if resp.Data.Username != "ann" || resp.Data.Role != "User" {
		t.Fatalf("unexpected user: %+v", resp.Data)
	}

	body.Email = "other@x.com"
	w = doJSON(t, router, http.MethodPost, "/api/users/register", body)
	errResp := expectError(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	if !hasFieldError(errResp, "Username") {
		t.Fatalf("expected Username error, got %+v", errResp.Errors)
	}
}

func TestRegisterUser_DoesNotExposePassword(t *testing.T) {
	router := setupTestRouter(testutil.NewTestDB(t))

	w := doJSON(t, router, http.MethodPost, "/api/users/register", service.CreateUserInput{
		Username: "ann",
		Email:    "ann@example.com",
		Password: "secret1",
		Role:     "Admin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var raw map[string]map[string]any
	decode(t, w, &raw)
	for _, key := range []string{"password", "password_hash"} {
		if _, ok := raw["data"][key]; ok {
			t.Fatalf("expected %q to be absent from %v", key, raw["data"])
		}
	}
}

func TestLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, "ann", model.RoleAdmin)
	router := setupTestRouter(db)

	w := doJSON(t, router, http.MethodPost, "/api/users/login", service.LoginInput{
		Username: "ann",
		Password: "password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	decode(t, w, &resp)
	if resp.Data.Token == "" {
		t.Fatalf("expected a token")
	}
	if resp.Data.User.Role != "Admin" {
		t.Fatalf("expected Admin role, got %q", resp.Data.User.Role)
	}

	w = doJSON(t, router, http.MethodPost, "/api/users/login", service.LoginInput{
		Username: "ann",
		Password: "wrong",
	})
	expectError(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestValidateCredentialsAndUsernameExists(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, "ann", model.RoleUser)
	router := setupTestRouter(db)

	w := doJSON(t, router, http.MethodPost, "/api/users/validate-credentials", service.LoginInput{
		Username: "ann",
		Password: "password",
	})
	var valid FlagResponse
	decode(t, w, &valid)
	if !valid.Data["valid"] {
		t.Fatalf("expected credentials to be valid, got %v", valid.Data)
	}

	w = doJSON(t, router, http.MethodPost, "/api/users/validate-credentials", service.LoginInput{
		Username: "nobody",
		Password: "password",
	})
	decode(t, w, &valid)
	if valid.Data["valid"] {
		t.Fatalf("expected unknown user to be invalid")
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/username/ann/exists", nil)
	var exists FlagResponse
	decode(t, w, &exists)
	if !exists.Data["exists"] {
		t.Fatalf("expected ann to exist, got %v", exists.Data)
	}
}

func loginToken(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/users/login", service.LoginInput{
		Username: username,
		Password: "password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected status 200, got %d, body=%s", username, w.Code, w.Body.String())
	}

	var resp LoginResponse
	decode(t, w, &resp)
	return resp.Data.Token
}

func TestUsersByRole_And_UpdateRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedUser(t, db, "root", model.RoleAdmin)
	ann := testutil.SeedUser(t, db, "ann", model.RoleUser)
	router := setupTestRouter(db)
	token := loginToken(t, router, "root")

	w := doJSONWithToken(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d/role/Admin", ann.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/role/Admin", nil)
	var resp ListUsersResponse
	decode(t, w, &resp)
	if len(resp.Data) != 2 || resp.Data[0].Username != "ann" || resp.Data[1].Username != "root" {
		t.Fatalf("expected ann and root among admins, got %+v", resp.Data)
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/role/Root", nil)
	errResp := expectError(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	if !hasFieldError(errResp, "Role") {
		t.Fatalf("expected Role error, got %+v", errResp.Errors)
	}
}

func TestUpdateUserRole_RequiresAdminToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	ann := testutil.SeedUser(t, db, "ann", model.RoleUser)
	router := setupTestRouter(db)
	path := fmt.Sprintf("/api/users/%d/role/Admin", ann.ID)

	w := doJSON(t, router, http.MethodPut, path, nil)
	expectError(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = doJSONWithToken(t, router, http.MethodPut, path, "not-a-jwt", nil)
	expectError(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = doJSONWithToken(t, router, http.MethodPut, path, loginToken(t, router, "ann"), nil)
	expectError(t, w, http.StatusForbidden, "FORBIDDEN")

	w = doJSON(t, router, http.MethodGet, "/api/users/role/Admin", nil)
	var resp ListUsersResponse
	decode(t, w, &resp)
	if len(resp.Data) != 0 {
		t.Fatalf("expected no admins after rejected requests, got %+v", resp.Data)
	}
}

func TestGetUserByID_IncludesReviews(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.SeedAuthor(t, db, "Frank Herbert")
	dune := testutil.SeedBook(t, db, author, "Dune", 1965)
	ann := testutil.SeedUser(t, db, "ann", model.RoleUser)
	testutil.SeedReview(t, db, dune, ann, 5)
	router := setupTestRouter(db)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", ann.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp UserDetailResponse
	decode(t, w, &resp)
	if resp.Data.ReviewCount != 1 || len(resp.Data.Reviews) != 1 {
		t.Fatalf("expected one review, got %+v", resp.Data)
	}
	if resp.Data.Reviews[0].BookID != dune.ID || resp.Data.Reviews[0].Rating != 5 {
		t.Fatalf("unexpected review: %+v", resp.Data.Reviews[0])
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/999", nil)
	expectError(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestUsersWithReviews(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.SeedAuthor(t, db, "Frank Herbert")
	dune := testutil.SeedBook(t, db, author, "Dune", 1965)
	zed := testutil.SeedUser(t, db, "zed", model.RoleUser)
	testutil.SeedUser(t, db, "ann", model.RoleUser)
	testutil.SeedReview(t, db, dune, zed, 4)
	router := setupTestRouter(db)

	w := doJSON(t, router, http.MethodGet, "/api/users/with-reviews", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp ListUserDetailsResponse
	decode(t, w, &resp)
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 users, got %+v", resp.Data)
	}
	if resp.Data[0].Username != "ann" || len(resp.Data[0].Reviews) != 0 || resp.Data[0].Reviews == nil {
		t.Fatalf("expected ann first with an empty review list, got %+v", resp.Data[0])
	}
	if resp.Data[1].Username != "zed" || len(resp.Data[1].Reviews) != 1 || resp.Data[1].ReviewCount != 1 {
		t.Fatalf("expected zed with one review, got %+v", resp.Data[1])
	}
}
