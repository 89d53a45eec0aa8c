package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

// AccessService decides what a user may do inside a project. Ownership
// short-circuits every check before any member row is consulted.
type AccessService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *AccessService {
	return &AccessService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// HasAccess reports whether the user is the project's owner or any kind
// of member. A missing (or soft-deleted) project yields false.
func (s *AccessService) HasAccess(projectID, userID uint64) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return true, nil
	}

	_, err = s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}

	return true, nil
}

// HasAdminAccess reports whether the user is the project's owner or an
// Admin member.
func (s *AccessService) HasAdminAccess(projectID, userID uint64) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return true, nil
	}

	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}

	return member.AccessLevel == models.AccessAdmin, nil
}

// TaskProjectID derives a task's governing project through its group.
// A task without a group has no project: nil is returned and no
// project-level gate applies to it.
func (s *AccessService) TaskProjectID(task *models.Task) (*uint64, error) {
	if task.GroupID == nil {
		return nil, nil
	}

	group, err := s.taskRepo.FindGroup(*task.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task group: %w", err)
	}

	return &group.ProjectID, nil
}
