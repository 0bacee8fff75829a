package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/middleware"
	"github.com/snnyvrz/bookcatalog/internal/model"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
)

type UserService interface {
	List(ctx context.Context) ([]service.UserDTO, error)
	GetByID(ctx context.Context, id int) (*service.UserDetail, error)
	WithReviews(ctx context.Context) ([]service.UserDetail, error)
	GetByUsername(ctx context.Context, username string) (*service.UserDTO, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, in service.CreateUserInput) (*service.UserDTO, error)
	Update(ctx context.Context, in service.UpdateUserInput) (*service.UserDTO, error)
	UpdateRole(ctx context.Context, id int, role string) (*service.UserDTO, error)
	Delete(ctx context.Context, id int) error
	ValidateCredentials(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	ByRole(ctx context.Context, role string) ([]service.UserDTO, error)
}

type UserHandler struct {
	svc    UserService
	tokens *auth.Issuer
}

// NewUserHandler builds the user routes. tokens verifies the bearer token
// required to change roles.
func NewUserHandler(svc UserService, tokens *auth.Issuer) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/validate-credentials", h.ValidateCredentials)
		users.GET("/username/:username", h.GetUserByUsername)
		users.GET("/username/:username/exists", h.UsernameExists)
		users.GET("/role/:role", h.UsersByRole)
		users.GET("/with-reviews", h.UsersWithReviews)
		users.GET("/:id", h.GetUserByID)
		users.PUT("/:id", h.UpdateUser)
		users.PUT("/:id/role/:role", middleware.RequireRole(h.tokens, model.RoleAdmin.String()), h.UpdateUserRole)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// ListUsers godoc
// @Summary      List users
// @Description  Get all users ordered by username
// @Tags         users
// @Produce      json
// @Success      200  {object}  ListUsersResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "USER_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{Data: users})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      int                       true  "User ID"
// @Success      200  {object}  UserDetailResponse
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "User not found"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "USER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, UserDetailResponse{Data: *user})
}

// UsersWithReviews godoc
// @Summary      List users with their reviews
// @Description  Every user ordered by username, each with the reviews they wrote
// @Tags         users
// @Produce      json
// @Success      200  {object}  ListUserDetailsResponse
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/with-reviews [get]
func (h *UserHandler) UsersWithReviews(c *gin.Context) {
	users, err := h.svc.WithReviews(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "USER_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListUserDetailsResponse{Data: users})
}

// GetUserByUsername godoc
// @Summary      Get user by username
// @Tags         users
// @Produce      json
// @Param        username  path      string                    true  "Username"
// @Success      200       {object}  UserResponse
// @Failure      404       {object}  validation.ErrorResponse  "User not found"
// @Failure      500       {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/username/{username} [get]
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	user, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeServiceError(c, err, "USER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: *user})
}

// UsernameExists godoc
// @Summary      Is a username taken
// @Tags         users
// @Produce      json
// @Param        username  path      string                    true  "Username"
// @Success      200       {object}  FlagResponse
// @Failure      500       {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/username/{username}/exists [get]
func (h *UserHandler) UsernameExists(c *gin.Context) {
	exists, err := h.svc.UsernameExists(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeServiceError(c, err, "USER_FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, flag("exists", exists))
}

// UsersByRole godoc
// @Summary      List users by role
// @Tags         users
// @Produce      json
// @Param        role  path      string                    true  "Role"  Enums(User, Admin)
// @Success      200   {object}  ListUsersResponse
// @Failure      400   {object}  validation.ErrorResponse  "Unknown role"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/role/{role} [get]
func (h *UserHandler) UsersByRole(c *gin.Context) {
	users, err := h.svc.ByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		writeServiceError(c, err, "USER_LIST_FAILED")
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{Data: users})
}

// Register godoc
// @Summary      Register a user
// @Description  Username and email must both be unused
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserInput   true  "User to create"
// @Success      201      {object}  UserResponse
// @Failure      400      {object}  validation.ErrorResponse  "Validation error or taken username/email"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.CreateUserInput
	if !validation.BindJSON(c, &req) {
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "USER_CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: *user})
}

// Login godoc
// @Summary      Log in
// @Description  Exchange a username and password for a signed token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginInput        true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  validation.ErrorResponse  "Validation error"
// @Failure      401      {object}  validation.ErrorResponse  "Invalid credentials"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !validation.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "USER_LOGIN_FAILED")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Data: *res})
}

// ValidateCredentials godoc
// @Summary      Check credentials
// @Description  Reports whether the password belongs to the username without issuing a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginInput        true  "Credentials"
// @Success      200      {object}  FlagResponse
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/validate-credentials [post]
func (h *UserHandler) ValidateCredentials(c *gin.Context) {
	var req service.LoginInput
	if !validation.BindJSON(c, &req) {
		return
	}

	valid, err := h.svc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err, "USER_CREDENTIALS_FAILED")
		return
	}

	c.JSON(http.StatusOK, flag("valid", valid))
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Replace username, email and role. The password is not affected.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "User ID"
// @Param        payload  body      service.UpdateUserInput   true  "User fields"
// @Success      200      {object}  UserResponse
// @Failure      400      {object}  validation.ErrorResponse  "Invalid ID or validation error"
// @Failure      404      {object}  validation.ErrorResponse  "User not found"
// @Failure      500      {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateUserInput
	if !validation.BindJSON(c, &req) {
		return
	}
	req.ID = id

	user, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "USER_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: *user})
}

// UpdateUserRole godoc
// @Summary      Change the role of a user
// @Tags         users
// @Produce      json
// @Param        id    path      int                       true  "User ID"
// @Param        role  path      string                    true  "Role"  Enums(User, Admin)
// @Security     BearerAuth
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  validation.ErrorResponse  "Invalid ID or unknown role"
// @Failure      401   {object}  validation.ErrorResponse  "Missing or invalid token"
// @Failure      403   {object}  validation.ErrorResponse  "Caller is not an admin"
// @Failure      404   {object}  validation.ErrorResponse  "User not found"
// @Failure      500   {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/{id}/role/{role} [put]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.UpdateRole(c.Request.Context(), id, c.Param("role"))
	if err != nil {
		writeServiceError(c, err, "USER_UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: *user})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Delete a user who has written no reviews
// @Tags         users
// @Produce      json
// @Param        id   path      int                       true  "User ID"
// @Success      204  "No Content"
// @Failure      400  {object}  validation.ErrorResponse  "Invalid ID"
// @Failure      404  {object}  validation.ErrorResponse  "User not found"
// @Failure      409  {object}  validation.ErrorResponse  "User has reviews"
// @Failure      500  {object}  validation.ErrorResponse  "Internal server error"
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "USER_DELETE_FAILED")
		return
	}

	c.Status(http.StatusNoContent)
}
