package repository

import (
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormMarkRepository is a GORM implementation of MarkRepository
type GormMarkRepository struct {
	db *gorm.DB
}

// NewMarkRepository creates a new MarkRepository
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &GormMarkRepository{db: db}
}

func (r *GormMarkRepository) Create(mark *models.Mark) error {
	return r.db.Create(mark).Error
}

func (r *GormMarkRepository) FindByID(id uint64) (*models.Mark, error) {
	var mark models.Mark
	if err := r.db.First(&mark, id).Error; err != nil {
		return nil, err
	}
	return &mark, nil
}

func (r *GormMarkRepository) ListByTask(taskID uint64) ([]models.Mark, error) {
	var marks []models.Mark
	err := r.db.Where("task_id = ?", taskID).Order("created_at").Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}

func (r *GormMarkRepository) Update(mark *models.Mark) error {
	return r.db.Save(mark).Error
}

func (r *GormMarkRepository) Delete(mark *models.Mark) error {
	return r.db.Delete(mark).Error
}
