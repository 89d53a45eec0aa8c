package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormOtpRepository is a GORM implementation of OtpRepository
type GormOtpRepository struct {
	db *gorm.DB
}

// NewOtpRepository creates a new OtpRepository
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &GormOtpRepository{db: db}
}

// FindByID finds an OTP by ID
func (r *GormOtpRepository) FindByID(id uint64) (*models.Otp, error) {
	var otp models.Otp
	if err := r.db.First(&otp, id).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// Replace supersedes the user's live OTP with a fresh one. At most one
// live OTP per user exists at any time.
func (r *GormOtpRepository) Replace(user *models.User, otp *models.Otp) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		oldID := user.OtpID

		if err := tx.Create(otp).Error; err != nil {
			return fmt.Errorf("create otp: %w", err)
		}

		// Repoint the user before deleting the superseded row so the
		// foreign key is never left dangling.
		user.OtpID = &otp.ID
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("link otp to user: %w", err)
		}

		if oldID != nil {
			if err := tx.Delete(&models.Otp{}, *oldID).Error; err != nil {
				return fmt.Errorf("delete superseded otp: %w", err)
			}
		}

		return nil
	})
}

// Update persists changes to an OTP
func (r *GormOtpRepository) Update(otp *models.Otp) error {
	return r.db.Save(otp).Error
}

// Consume deletes the OTP and clears the user's OtpID. After this the
// user counts as confirmed.
func (r *GormOtpRepository) Consume(user *models.User, otp *models.Otp) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user.OtpID = nil
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("clear user otp reference: %w", err)
		}

		if err := tx.Delete(otp).Error; err != nil {
			return fmt.Errorf("delete otp: %w", err)
		}

		return nil
	})
}
