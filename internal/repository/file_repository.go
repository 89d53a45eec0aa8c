package repository

import (
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormFileRepository is a GORM implementation of FileRepository
type GormFileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) CreateStoreFile(file *models.StoreFile) error {
	return r.db.Create(file).Error
}

func (r *GormFileRepository) FindStoreFile(id uint64) (*models.StoreFile, error) {
	var file models.StoreFile
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) FindStoreFileByTagName(tagName string) (*models.StoreFile, error) {
	var file models.StoreFile
	if err := r.db.Where("tag_name = ?", tagName).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormFileRepository) Attach(taskFile *models.TaskFile) error {
	return r.db.Create(taskFile).Error
}

func (r *GormFileRepository) FindAttachment(taskID, fileID uint64) (*models.TaskFile, error) {
	var taskFile models.TaskFile
	err := r.db.Where("task_id = ? AND file_id = ?", taskID, fileID).First(&taskFile).Error
	if err != nil {
		return nil, err
	}
	return &taskFile, nil
}

func (r *GormFileRepository) ListAttachments(taskID uint64) ([]models.TaskFile, error) {
	var taskFiles []models.TaskFile
	err := r.db.Preload("File").Where("task_id = ?", taskID).Find(&taskFiles).Error
	if err != nil {
		return nil, err
	}
	return taskFiles, nil
}

func (r *GormFileRepository) Detach(taskFile *models.TaskFile) error {
	return r.db.Delete(taskFile).Error
}
