package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
	"github.com/workbenchflow/workbench-api/internal/utils"
)

// UserHandler serves user listing and profile management.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, err := h.userService.List(params.Offset, params.Limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"page":  params.Page,
		"limit": params.Limit,
	})
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apperrors.NotFound(c, "User not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, false))
}

// UpdateMe handles PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		apperrors.Unauthorized(c, "")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.Update(user, services.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTooShort), errors.Is(err, services.ErrPasswordTooShort):
			apperrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrUsernameTaken):
			apperrors.Conflict(c, err.Error())
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated, true))
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.Deactivate(user); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}

// parseIDParam reads a numeric path parameter, responding 400 itself
// when the value is not a valid ID.
func parseIDParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, "Invalid "+name)
		return 0, errors.New("invalid id param")
	}
	return id, nil
}
