package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

var (
	ErrMarkNotFound     = errors.New("mark not found")
	ErrTaskNotInProject = errors.New("task does not belong to a project")
	ErrMarkAccessDenied = errors.New("no permission to mark this task")
	ErrInvalidMarkRate  = errors.New("rate must be between 0 and 10")
	ErrNotMarkAuthor    = errors.New("only the author or a project admin may change a mark")
)

// MarkService manages task marks. Marks exist only for tasks inside a
// project: a project admin may mark any task, the task's target may
// mark their own if they are a member.
type MarkService struct {
	markRepo repository.MarkRepository
	taskRepo repository.TaskRepository
	access   *AccessService
	logger   zerolog.Logger
}

// NewMarkService creates a new MarkService.
func NewMarkService(markRepo repository.MarkRepository, taskRepo repository.TaskRepository, access *AccessService, logger zerolog.Logger) *MarkService {
	return &MarkService{
		markRepo: markRepo,
		taskRepo: taskRepo,
		access:   access,
		logger:   logger,
	}
}

// CreateMarkInput holds the fields for a mark.
type CreateMarkInput struct {
	Description string
	Rate        *int
}

// Create adds a mark to a task.
func (s *MarkService) Create(taskID, authorID uint64, input CreateMarkInput) (*models.Mark, error) {
	if err := validateRate(input.Rate); err != nil {
		return nil, err
	}

	task, projectID, err := s.projectTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.mayMark(task, projectID, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMarkAccessDenied
	}

	mark := &models.Mark{
		TaskID:      taskID,
		AuthorID:    authorID,
		Description: input.Description,
		Rate:        input.Rate,
	}

	if err := s.markRepo.Create(mark); err != nil {
		return nil, fmt.Errorf("failed to create mark: %w", err)
	}

	s.logger.Info().Uint64("mark_id", mark.ID).Uint64("task_id", taskID).Msg("mark created")
	return mark, nil
}

// ListByTask returns a task's marks. Any project member may list;
// a task outside any project is not gated.
func (s *MarkService) ListByTask(taskID, userID uint64) ([]models.Mark, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	projectID, err := s.access.TaskProjectID(task)
	if err != nil {
		return nil, err
	}
	if projectID != nil {
		ok, err := s.access.HasAccess(*projectID, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotProjectMember
		}
	}

	marks, err := s.markRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	return marks, nil
}

// UpdateMarkInput holds optional mark fields; nil means keep.
type UpdateMarkInput struct {
	Description *string
	Rate        *int
}

// Update changes a mark. Only its author or a project admin may.
func (s *MarkService) Update(markID, userID uint64, input UpdateMarkInput) (*models.Mark, error) {
	if err := validateRate(input.Rate); err != nil {
		return nil, err
	}

	mark, err := s.requireEditable(markID, userID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		mark.Description = *input.Description
	}
	if input.Rate != nil {
		mark.Rate = input.Rate
	}

	if err := s.markRepo.Update(mark); err != nil {
		return nil, fmt.Errorf("failed to update mark: %w", err)
	}

	return mark, nil
}

// Delete removes a mark. Only its author or a project admin may.
func (s *MarkService) Delete(markID, userID uint64) error {
	mark, err := s.requireEditable(markID, userID)
	if err != nil {
		return err
	}

	if err := s.markRepo.Delete(mark); err != nil {
		return fmt.Errorf("failed to delete mark: %w", err)
	}

	return nil
}

// mayMark allows a project admin for any task, and the task's target
// when they are also a member.
func (s *MarkService) mayMark(task *models.Task, projectID, userID uint64) (bool, error) {
	admin, err := s.access.HasAdminAccess(projectID, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	if task.TargetID == nil || *task.TargetID != userID {
		return false, nil
	}

	return s.access.HasAccess(projectID, userID)
}

// requireEditable applies the same gate as mark creation before the
// authorship check: an admin edits any mark, the task's current target
// (while still a member) only their own. A mark author who is no longer
// the target or a member has no standing.
func (s *MarkService) requireEditable(markID, userID uint64) (*models.Mark, error) {
	mark, err := s.markRepo.FindByID(markID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to find mark: %w", err)
	}

	task, projectID, err := s.projectTask(mark.TaskID)
	if err != nil {
		return nil, err
	}

	admin, err := s.access.HasAdminAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if admin {
		return mark, nil
	}

	ok, err := s.mayMark(task, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMarkAccessDenied
	}

	if mark.AuthorID != userID {
		return nil, ErrNotMarkAuthor
	}

	return mark, nil
}

// projectTask loads a task and resolves its project, refusing tasks
// outside any project.
func (s *MarkService) projectTask(taskID uint64) (*models.Task, uint64, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTaskNotFound
		}
		return nil, 0, fmt.Errorf("failed to find task: %w", err)
	}

	projectID, err := s.access.TaskProjectID(task)
	if err != nil {
		return nil, 0, err
	}
	if projectID == nil {
		return nil, 0, ErrTaskNotInProject
	}

	return task, *projectID, nil
}

func validateRate(rate *int) error {
	if rate != nil && (*rate < 0 || *rate > 10) {
		return ErrInvalidMarkRate
	}
	return nil
}
