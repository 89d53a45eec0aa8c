package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
)

// AuthHandler serves registration, email confirmation and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user, true))
}

// ConfirmOtp handles POST /auth/confirm-otp
func (h *AuthHandler) ConfirmOtp(c *gin.Context) {
	var req dto.ConfirmOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ConfirmOtp(req.Email, req.Code); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account confirmed"})
}

// ResendOtp handles POST /auth/again-otp
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	var req dto.ResendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResendOtp(c.Request.Context(), req.Email); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation code sent"})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.ToUserDTO(*user, true),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, true))
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	var mismatch *services.CodeMismatchError
	var cooldown *services.ResendCooldownError

	switch {
	case errors.Is(err, services.ErrUsernameTooShort),
		errors.Is(err, services.ErrPasswordTooShort):
		apperrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apperrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apperrors.UnauthorizedWithCode(c, apperrors.ErrCodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, services.ErrAccountUnconfirmed):
		apperrors.ForbiddenWithCode(c, apperrors.ErrCodeAccountUnconfirmed, "Confirm your email before logging in")
	case errors.Is(err, services.ErrAccountAlreadyActive):
		apperrors.Conflict(c, "Account is already confirmed")
	case errors.Is(err, services.ErrUserNotFound):
		apperrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrOtpNotFound):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeOtpNotFound, "No confirmation code is pending")
	case errors.Is(err, services.ErrOtpExpired):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeOtpExpired, "Confirmation code expired, request a new one")
	case errors.Is(err, services.ErrOtpAttemptsExhausted):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeOtpAttemptsExhausted, "No attempts left, request a new code")
	case errors.As(err, &mismatch):
		apperrors.BadRequestWithDetails(c, apperrors.ErrCodeOtpCodeMismatch, "Invalid confirmation code",
			gin.H{"attempts_left": mismatch.AttemptsLeft})
	case errors.As(err, &cooldown):
		apperrors.TooManyRequests(c, "Wait before requesting another code",
			gin.H{"wait_seconds": cooldown.WaitSeconds})
	case errors.Is(err, services.ErrDeliveryFailed):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeDeliveryFailed, "Could not send the confirmation email")
	default:
		apperrors.InternalError(c, "")
	}
}
