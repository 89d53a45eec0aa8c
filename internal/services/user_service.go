package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/constants"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

// UserService manages user profiles. Account creation lives in
// AuthService; this covers listing, lookup, profile edits and
// deactivation.
type UserService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns active users with pagination.
func (s *UserService) List(offset, limit int) ([]models.User, error) {
	users, err := s.userRepo.List(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get returns an active user by ID.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput holds optional profile fields; nil means keep.
type UpdateUserInput struct {
	Username *string
	Password *string
}

// Update edits the user's own profile. A new username must be unused
// and long enough; a new password is re-hashed.
func (s *UserService) Update(user *models.User, input UpdateUserInput) (*models.User, error) {
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < constants.MinUsernameLength {
			return nil, ErrUsernameTooShort
		}
		if username != user.Username {
			if _, err := s.userRepo.FindByUsername(username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			user.Username = username
		}
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Deactivate soft-deletes the user's own account. The row stays so
// authored content keeps its attribution, but the account can no longer
// log in.
func (s *UserService) Deactivate(user *models.User) error {
	if err := s.userRepo.SoftDelete(user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info().Uint64("user_id", user.ID).Msg("user deactivated")
	return nil
}
