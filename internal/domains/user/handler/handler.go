package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"reviewhub-backend/internal/domains/user/model"
	"reviewhub-backend/internal/domains/user/service"
	"reviewhub-backend/internal/shared/middleware"
	"reviewhub-backend/internal/shared/response"
)

type UserHandler struct {
	userService service.ServiceInterface
}

func NewUserHandler(userService service.ServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

// RequestCode registers (or re-identifies) an account by email and
// sends a confirmation code
// POST /api/v1/auth/email
func (h *UserHandler) RequestCode(c *gin.Context) {
	var req model.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	result, err := h.userService.RegisterByEmail(c.Request.Context(), req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Created(c, "Confirmation code sent", result)
}

// IssueToken exchanges a confirmation code for a token pair
// POST /api/v1/token
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req model.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	result, err := h.userService.IssueToken(c.Request.Context(), req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "Token issued", result)
}

// RefreshToken trades a refresh token for a fresh pair
// POST /api/v1/token/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	result, err := h.userService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "Token refreshed", result)
}

// =====================================================
// PROFILE ENDPOINTS
// =====================================================

// GetMe returns the caller's profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	result, err := h.userService.GetMe(c.Request.Context(), actor.ID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "Profile retrieved", result)
}

// UpdateMe updates the caller's profile
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	result, err := h.userService.UpdateMe(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "Profile updated", result)
}

// DeleteMe is deliberately unsupported: accounts are removed by
// admins only
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	response.MethodNotAllowed(c, "USR_405", "Deleting your own account is not supported")
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// ListUsers lists accounts
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req model.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "Users retrieved", result)
}

// GetUser gets an account by username
// GET /api/v1/users/:username
func (h *UserHandler) GetUser(c *gin.Context) {
	result, err := h.userService.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "User retrieved", result)
}

// UpdateUser updates an account, role included
// PATCH /api/v1/users/:username
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req model.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_REQUEST", "invalid request body", err.Error())
		return
	}

	result, err := h.userService.AdminUpdateUser(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, "User updated", result)
}

// DeleteUser deletes an account
// DELETE /api/v1/users/:username
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.AdminDeleteUser(c.Request.Context(), c.Param("username")); err != nil {
		respondUserError(c, err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// HELPERS
// =====================================================

func respondUserError(c *gin.Context, err error) {
	var userErr *model.UserError
	if errors.As(err, &userErr) {
		switch userErr.Code {
		case model.ErrCodeUserNotFound:
			response.NotFound(c, userErr.Code, userErr.Message)
		case model.ErrCodeDuplicateEmail, model.ErrCodeDuplicateUsername:
			response.Conflict(c, userErr.Code, userErr.Message)
		case model.ErrCodeInvalidCode, model.ErrCodeInvalidRefresh, model.ErrCodeInvalidRole:
			response.BadRequest(c, userErr.Code, userErr.Message, nil)
		default:
			response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.BadRequest(c, "VALIDATION_ERROR", "validation failed", vErrs)
		return
	}

	response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
}
