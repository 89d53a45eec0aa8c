package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/constants"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/token"
)

// RequireAuth validates the Bearer token and loads the authenticated
// user into the context. Soft-deleted accounts hold a valid token but
// are refused.
func RequireAuth(tokens *token.Manager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apperrors.Unauthorized(c, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		username, err := tokens.Parse(raw)
		if err != nil {
			apperrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// A vanished user is an auth failure; a deactivated one still
		// exists and gets a distinct refusal
		user, err := userRepo.FindByUsernameAny(username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Unauthorized(c, "User not found")
			} else {
				apperrors.InternalError(c, "")
			}
			c.Abort()
			return
		}
		if user.IsDeleted {
			apperrors.ForbiddenWithCode(c, apperrors.ErrCodeAccountInactive, "Account is no longer active")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// GetUser returns the authenticated user stored by RequireAuth.
func GetUser(c *gin.Context) *models.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the authenticated user's ID, or 0 when the request
// is unauthenticated.
func GetUserID(c *gin.Context) uint64 {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0
	}
	id, ok := value.(uint64)
	if !ok {
		return 0
	}
	return id
}
