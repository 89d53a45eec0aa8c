package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/database"
	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithOtp creates the user and their first OTP atomically.
func (r *GormUserRepository) CreateWithOtp(user *models.User, otp *models.Otp) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(otp).Error; err != nil {
			return fmt.Errorf("create otp: %w", err)
		}

		user.OtpID = &otp.ID
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
}

// HardDeleteWithOtp removes the user row and their OTP row. This is a
// registration rollback, not a soft delete.
func (r *GormUserRepository) HardDeleteWithOtp(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		otpID := user.OtpID

		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		if otpID != nil {
			if err := tx.Delete(&models.Otp{}, *otpID).Error; err != nil {
				return fmt.Errorf("delete otp: %w", err)
			}
		}

		return nil
	})
}

// FindByID finds a non-deleted user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(database.NotDeleted).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a non-deleted user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(database.NotDeleted).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameAny finds a user by username, soft-deleted rows
// included
func (r *GormUserRepository) FindByUsernameAny(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a non-deleted user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(database.NotDeleted).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns non-deleted users
func (r *GormUserRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Scopes(database.NotDeleted).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// SoftDelete marks a user as deleted
func (r *GormUserRepository) SoftDelete(user *models.User) error {
	user.IsDeleted = true
	return r.db.Save(user).Error
}
