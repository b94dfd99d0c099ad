package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/response"
)

type userService interface {
	RoleByEmail(ctx context.Context, email string) (*models.RoleLookup, error)
	Upsert(ctx context.Context, req models.CreateUserRequest) (*models.UpsertUserResult, error)
	Profile(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, req models.UpdateProfileRequest) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error)
	UpdateRole(ctx context.Context, id string, req models.UpdateRoleRequest, meta models.RequestMeta) (*models.User, error)
	Delete(ctx context.Context, id string, meta models.RequestMeta) error
}

// UserHandler handles account endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Role godoc
// @Summary Resolve role
// @Description Return the stored role for an email, or user when unknown
// @Tags Users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Router /users/role/{email} [get]
func (h *UserHandler) Role(c *gin.Context) {
	lookup, err := h.service.RoleByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lookup, nil)
}

// Upsert godoc
// @Summary Register user
// @Description Create the user on first sign-in; existing users are left untouched
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.CreateUserRequest true "User"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Upsert(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.InsertedID != nil {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}

// Profile godoc
// @Summary Own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email query string true "Caller email"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	user, err := h.service.Profile(c.Request.Context(), identity.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email query string true "Caller email"
// @Param payload body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /users/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), identity.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Param search query string false "Email or name search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	filter.Page, filter.PageSize = pageParams(c)
	filter.Search = c.Query("search")
	if raw := c.Query("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid role filter."))
			return
		}
		filter.Role = &role
	}
	users, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// UpdateRole godoc
// @Summary Change user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body models.UpdateRoleRequest true "Role"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/role/{id} [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted successfully.", nil)
}
