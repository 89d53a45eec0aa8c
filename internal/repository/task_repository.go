package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var task models.Task
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks with offset/limit pagination
func (r *GormTaskRepository) List(offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForUser returns tasks authored by or targeted at the user
func (r *GormTaskRepository) ListForUser(userID uint64, closed *bool) ([]models.Task, error) {
	query := r.db.Where("author_id = ? OR target_id = ?", userID, userID)
	if closed != nil {
		query = query.Where("is_closed = ?", *closed)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject returns tasks reached through the project's groups
func (r *GormTaskRepository) ListByProject(projectID uint64, closed *bool) ([]models.Task, error) {
	query := r.db.
		Joins("JOIN task_groups ON task_groups.id = tasks.group_id").
		Where("task_groups.project_id = ?", projectID)
	if closed != nil {
		query = query.Where("tasks.is_closed = ?", *closed)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its child rows
func (r *GormTaskRepository) Delete(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteTaskChildren(tx, task.ID); err != nil {
			return err
		}
		if err := tx.Delete(task).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

// CreateGroup creates a task group
func (r *GormTaskRepository) CreateGroup(group *models.TaskGroup) error {
	return r.db.Create(group).Error
}

// FindGroup finds a task group by ID
func (r *GormTaskRepository) FindGroup(groupID uint64) (*models.TaskGroup, error) {
	var group models.TaskGroup
	if err := r.db.First(&group, groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups lists a project's task groups
func (r *GormTaskRepository) ListGroups(projectID uint64) ([]models.TaskGroup, error) {
	var groups []models.TaskGroup
	if err := r.db.Where("project_id = ?", projectID).Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateGroup persists changes to a task group
func (r *GormTaskRepository) UpdateGroup(group *models.TaskGroup) error {
	return r.db.Save(group).Error
}

// DeleteGroup removes a group together with its tasks
func (r *GormTaskRepository) DeleteGroup(group *models.TaskGroup) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tasks []models.Task
		if err := tx.Where("group_id = ?", group.ID).Find(&tasks).Error; err != nil {
			return fmt.Errorf("load group tasks: %w", err)
		}

		for _, task := range tasks {
			if err := deleteTaskChildren(tx, task.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete group tasks: %w", err)
		}

		if err := tx.Delete(group).Error; err != nil {
			return fmt.Errorf("delete group: %w", err)
		}

		return nil
	})
}

// FindState finds a task state by ID
func (r *GormTaskRepository) FindState(stateID uint64) (*models.TaskState, error) {
	var state models.TaskState
	if err := r.db.First(&state, stateID).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// ListStates lists all task states
func (r *GormTaskRepository) ListStates() ([]models.TaskState, error) {
	var states []models.TaskState
	if err := r.db.Order("id").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// CreateState creates a task state
func (r *GormTaskRepository) CreateState(state *models.TaskState) error {
	return r.db.Create(state).Error
}

// FirstState returns the lowest-ID state
func (r *GormTaskRepository) FirstState() (*models.TaskState, error) {
	var state models.TaskState
	if err := r.db.Order("id").First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func deleteTaskChildren(tx *gorm.DB, taskID uint64) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("delete task comments: %w", err)
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.Mark{}).Error; err != nil {
		return fmt.Errorf("delete task marks: %w", err)
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.Pin{}).Error; err != nil {
		return fmt.Errorf("delete task pins: %w", err)
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskFile{}).Error; err != nil {
		return fmt.Errorf("delete task attachments: %w", err)
	}
	return nil
}
