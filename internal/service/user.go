package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/repository"
	"github.com/snnyvrz/bookcatalog/internal/validation"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login when the username is unknown or
// the password does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

type CreateUserInput struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,notblank,max=100,email"`
	Password string `json:"password" validate:"required,notblank,min=6,max=100"`
	Role     string `json:"role" validate:"required,notblank,oneof=User Admin"`
}

// UpdateUserInput never carries a password; credentials are changed
// elsewhere.
type UpdateUserInput struct {
	ID       int    `json:"id" validate:"gt=0"`
	Username string `json:"username" validate:"required,notblank,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,notblank,max=100,email"`
	Role     string `json:"role" validate:"required,notblank,oneof=User Admin"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

type UserDTO struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ReviewCount int64  `json:"review_count"`
}

// UserDetail is a user together with their reviews, newest first.
type UserDetail struct {
	ID          int         `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	ReviewCount int64       `json:"review_count"`
	Reviews     []ReviewDTO `json:"reviews"`
}

type LoginResult struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserService struct {
	users   repository.UserRepository
	reviews repository.ReviewRepository
	tokens  *auth.Issuer
}

func NewUserService(users repository.UserRepository, reviews repository.ReviewRepository, tokens *auth.Issuer) *UserService {
	return &UserService{
		users:   users,
		reviews: reviews,
		tokens:  tokens,
	}
}

// List returns every user ordered by username.
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return s.withCounts(ctx, users)
}

// GetByID returns the user with every review they wrote.
func (s *UserService) GetByID(ctx context.Context, id int) (*UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User", id)
	}

	details, err := s.withReviews(ctx, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// WithReviews returns every user ordered by username, each with their
// reviews.
func (s *UserService) WithReviews(ctx context.Context) ([]UserDetail, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return s.withReviews(ctx, users)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*UserDTO, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookup(err, "User", username)
	}
	return s.withCount(ctx, *user)
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find user by username: %w", err)
	}
	return true, nil
}

// Create registers a user. Username and email are checked independently and
// both collisions are reported together.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, fieldError("Role", "Role must be one of: User, Admin")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := toUserDTO(user, 0)
	return &dto, nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*UserDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, in.ID)
	if err != nil {
		return nil, lookup(err, "User", in.ID)
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, user.ID); err != nil {
		return nil, err
	}

	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, fieldError("Role", "Role must be one of: User, Admin")
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookup(err, "User", in.ID)
	}

	return s.withCount(ctx, *user)
}

func (s *UserService) UpdateRole(ctx context.Context, id int, role string) (*UserDTO, error) {
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, fieldError("Role", "Role must be one of: User, Admin")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User", id)
	}

	user.Role = r
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookup(err, "User", id)
	}

	return s.withCount(ctx, *user)
}

// Delete refuses to remove a user who has written reviews.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return lookup(err, "User", id)
	}

	counts, err := s.reviews.CountsByUser(ctx, []int{id})
	if err != nil {
		return fmt.Errorf("count reviews of user %d: %w", id, err)
	}
	if n := counts[id]; n > 0 {
		return violation("user %d has %d review(s) and cannot be deleted", id, n)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return lookup(err, "User", id)
	}
	return nil
}

// ValidateCredentials reports whether password belongs to username. An
// unknown user is not an error. Only storage failures are returned.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find user by username: %w", err)
	}
	return auth.VerifyPassword(user.PasswordHash, password), nil
}

// Login checks the credentials and issues a signed token for the user.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	ok, err := s.ValidateCredentials(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user, err := s.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		User:      *user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ByRole returns the users holding role, ordered by username.
func (s *UserService) ByRole(ctx context.Context, role string) ([]UserDTO, error) {
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, fieldError("Role", "Role must be one of: User, Admin")
	}

	users, err := s.users.ListByRole(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return s.withCounts(ctx, users)
}

// ensureUnique fails when a user other than selfID already owns the username
// or the email.
func (s *UserService) ensureUnique(ctx context.Context, username, email string, selfID int) error {
	errs := validation.Errors{}

	taken, err := s.owned(ctx, s.users.FindByUsername, username, selfID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("Username", fmt.Sprintf("username %q is already taken", username))
	}

	taken, err = s.owned(ctx, s.users.FindByEmail, email, selfID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("Email", fmt.Sprintf("email %q is already registered", email))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (s *UserService) owned(
	ctx context.Context,
	find func(context.Context, string) (*model.User, error),
	key string,
	selfID int,
) (bool, error) {
	user, err := find(ctx, key)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find user %q: %w", key, err)
	}
	return user.ID != selfID, nil
}

func (s *UserService) withCount(ctx context.Context, user model.User) (*UserDTO, error) {
	dtos, err := s.withCounts(ctx, []model.User{user})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *UserService) withCounts(ctx context.Context, users []model.User) ([]UserDTO, error) {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	counts, err := s.reviews.CountsByUser(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserDTO(u, counts[u.ID]))
	}
	return dtos, nil
}

func (s *UserService) withReviews(ctx context.Context, users []model.User) ([]UserDetail, error) {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	reviews, err := s.reviews.ListByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list reviews of users: %w", err)
	}

	byUser := make(map[int][]model.Review, len(users))
	for _, r := range reviews {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	details := make([]UserDetail, 0, len(users))
	for _, u := range users {
		own := byUser[u.ID]
		details = append(details, UserDetail{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			Role:        u.Role.String(),
			ReviewCount: int64(len(own)),
			Reviews:     toReviewDTOs(own),
		})
	}
	return details, nil
}

func toUserDTO(u model.User, reviewCount int64) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role.String(),
		ReviewCount: reviewCount,
	}
}
