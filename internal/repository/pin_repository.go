package repository

import (
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormPinRepository is a GORM implementation of PinRepository
type GormPinRepository struct {
	db *gorm.DB
}

// NewPinRepository creates a new PinRepository
func NewPinRepository(db *gorm.DB) PinRepository {
	return &GormPinRepository{db: db}
}

func (r *GormPinRepository) Create(pin *models.Pin) error {
	return r.db.Create(pin).Error
}

func (r *GormPinRepository) Find(userID, taskID uint64) (*models.Pin, error) {
	var pin models.Pin
	err := r.db.Where("user_id = ? AND task_id = ?", userID, taskID).First(&pin).Error
	if err != nil {
		return nil, err
	}
	return &pin, nil
}

func (r *GormPinRepository) ListByUser(userID uint64) ([]models.Pin, error) {
	var pins []models.Pin
	if err := r.db.Where("user_id = ?", userID).Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *GormPinRepository) Delete(pin *models.Pin) error {
	return r.db.Delete(pin).Error
}
