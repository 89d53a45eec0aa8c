package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

var (
	ErrPinNotFound   = errors.New("pin not found")
	ErrAlreadyPinned = errors.New("task is already pinned")
)

// PinService manages per-user task pins. A pin is private to the user
// who set it; a user may pin any task they can see, once.
type PinService struct {
	pinRepo repository.PinRepository
	tasks   *TaskService
}

// NewPinService creates a new PinService.
func NewPinService(pinRepo repository.PinRepository, tasks *TaskService) *PinService {
	return &PinService{
		pinRepo: pinRepo,
		tasks:   tasks,
	}
}

// Pin marks a task as pinned for the user.
func (s *PinService) Pin(userID, taskID uint64) (*models.Pin, error) {
	task, err := s.tasks.findTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.tasks.canSee(task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskAccessDenied
	}

	if _, err := s.pinRepo.Find(userID, taskID); err == nil {
		return nil, ErrAlreadyPinned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pin: %w", err)
	}

	pin := &models.Pin{
		UserID: userID,
		TaskID: taskID,
	}

	if err := s.pinRepo.Create(pin); err != nil {
		return nil, fmt.Errorf("failed to create pin: %w", err)
	}

	return pin, nil
}

// List returns the user's pins.
func (s *PinService) List(userID uint64) ([]models.Pin, error) {
	pins, err := s.pinRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	return pins, nil
}

// Unpin removes the user's pin from a task.
func (s *PinService) Unpin(userID, taskID uint64) error {
	pin, err := s.pinRepo.Find(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPinNotFound
		}
		return fmt.Errorf("failed to find pin: %w", err)
	}

	if err := s.pinRepo.Delete(pin); err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}

	return nil
}
