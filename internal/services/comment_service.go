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
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the comment's author may change it")
)

// CommentService manages task comments. Anyone who can see a task may
// comment on it; only the comment's author may edit or delete it.
type CommentService struct {
	commentRepo repository.CommentRepository
	tasks       *TaskService
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, tasks *TaskService, logger zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		tasks:       tasks,
		logger:      logger,
	}
}

// Create adds a comment to a task the author can see.
func (s *CommentService) Create(taskID, authorID uint64, text string) (*models.Comment, error) {
	task, err := s.tasks.findTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.tasks.canSee(task, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskAccessDenied
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: authorID,
		TaskID:   taskID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListByTask returns a task's comments for a user who can see it.
func (s *CommentService) ListByTask(taskID, userID uint64) ([]models.Comment, error) {
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

	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update changes a comment's text. Author only.
func (s *CommentService) Update(commentID, userID uint64, text string) (*models.Comment, error) {
	comment, err := s.requireAuthor(commentID, userID)
	if err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment. Author only.
func (s *CommentService) Delete(commentID, userID uint64) error {
	comment, err := s.requireAuthor(commentID, userID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) requireAuthor(commentID, userID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	return comment, nil
}
