package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/constants"
	"github.com/workbenchflow/workbench-api/internal/mailer"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/token"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTooShort     = errors.New("username too short")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountUnconfirmed   = errors.New("account email is not confirmed")
	ErrAccountAlreadyActive = errors.New("account is already confirmed")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrDeliveryFailed       = errors.New("failed to send confirmation code")
)

// AuthService handles registration, OTP confirmation and login.
type AuthService struct {
	userRepo    repository.UserRepository
	otpService  *OtpService
	mail        mailer.Mailer
	tokens      *token.Manager
	mailTimeout time.Duration
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	otpService *OtpService,
	mail mailer.Mailer,
	tokens *token.Manager,
	mailTimeout time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		otpService:  otpService,
		mail:        mail,
		tokens:      tokens,
		mailTimeout: mailTimeout,
		logger:      logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an unconfirmed user with a live OTP and mails the
// code. If the mail cannot be delivered the user and OTP are removed
// again: an unconfirmable, uncontactable account is worse than none.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if len(username) < constants.MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	otp, err := s.otpService.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := s.userRepo.CreateWithOtp(user, otp); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.deliverOtp(ctx, user.Email, otp.Code); err != nil {
		if delErr := s.userRepo.HardDeleteWithOtp(user); delErr != nil {
			s.logger.Error().Err(delErr).Uint64("user_id", user.ID).Msg("failed to roll back registration")
		}
		return nil, ErrDeliveryFailed
	}

	s.logger.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// ConfirmOtp verifies the submitted code and, on success, marks the
// account confirmed.
func (s *AuthService) ConfirmOtp(email, code string) error {
	return s.otpService.Verify(strings.TrimSpace(strings.ToLower(email)), code)
}

// ResendOtp issues a fresh code for an unconfirmed account, subject to
// the resend cooldown. A delivery failure here keeps the account; the
// caller may simply try again.
func (s *AuthService) ResendOtp(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.OtpID == nil {
		return ErrAccountAlreadyActive
	}

	if err := s.otpService.CanResend(email); err != nil {
		return err
	}

	code, err := s.otpService.Issue(user)
	if err != nil {
		return err
	}

	if err := s.deliverOtp(ctx, user.Email, code); err != nil {
		return ErrDeliveryFailed
	}

	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials against a non-deleted user looked up by
// username (falling back to email), requires the account to be
// confirmed, and returns a signed session token.
func (s *AuthService) Login(input LoginInput) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("failed to find user: %w", err)
		}
		user, err = s.userRepo.FindByEmail(strings.ToLower(input.Username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil, ErrInvalidCredentials
			}
			return "", nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if user.OtpID != nil {
		return "", nil, ErrAccountUnconfirmed
	}

	signed, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Uint64("user_id", user.ID).Msg("user logged in")
	return signed, user, nil
}

// GetUser retrieves a non-deleted user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) deliverOtp(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	if err := s.mail.SendOtp(ctx, email, code); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("otp delivery failed")
		return err
	}
	return nil
}
