package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrAlreadyAttached = errors.New("file is already attached to the task")
	ErrNotAttached     = errors.New("file is not attached to the task")
)

// FileService stores uploaded files on disk under random names and
// tracks them in the database, optionally attached to tasks.
type FileService struct {
	fileRepo  repository.FileRepository
	tasks     *TaskService
	uploadDir string
	logger    zerolog.Logger
}

// NewFileService creates a new FileService rooted at uploadDir.
func NewFileService(fileRepo repository.FileRepository, tasks *TaskService, uploadDir string, logger zerolog.Logger) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		tasks:     tasks,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Upload writes the content to disk under a fresh random name and
// records it. The original file name is kept only as metadata.
func (s *FileService) Upload(authorID uint64, sourceName string, content io.Reader) (*models.StoreFile, error) {
	tagName := uuid.NewString() + filepath.Ext(sourceName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	path := filepath.Join(s.uploadDir, tagName)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	file := &models.StoreFile{
		SourceName: filepath.Base(sourceName),
		TagName:    tagName,
		AuthorID:   &authorID,
	}

	if err := s.fileRepo.CreateStoreFile(file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	s.logger.Info().Uint64("file_id", file.ID).Str("tag_name", tagName).Msg("file uploaded")
	return file, nil
}

// Get returns a stored file's metadata by ID.
func (s *FileService) Get(fileID uint64) (*models.StoreFile, error) {
	file, err := s.fileRepo.FindStoreFile(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return file, nil
}

// Open resolves a stored file by its on-disk tag name and opens the
// bytes for download. The caller closes the reader.
func (s *FileService) Open(tagName string) (*models.StoreFile, io.ReadCloser, error) {
	file, err := s.fileRepo.FindStoreFileByTagName(tagName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to find file: %w", err)
	}

	src, err := os.Open(filepath.Join(s.uploadDir, file.TagName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, src, nil
}

// Attach links a stored file to a task the user can edit.
func (s *FileService) Attach(taskID, fileID, userID uint64) (*models.TaskFile, error) {
	if err := s.requireEditableTask(taskID, userID); err != nil {
		return nil, err
	}

	if _, err := s.Get(fileID); err != nil {
		return nil, err
	}

	if _, err := s.fileRepo.FindAttachment(taskID, fileID); err == nil {
		return nil, ErrAlreadyAttached
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check attachment: %w", err)
	}

	taskFile := &models.TaskFile{
		TaskID: taskID,
		FileID: fileID,
	}

	if err := s.fileRepo.Attach(taskFile); err != nil {
		return nil, fmt.Errorf("failed to attach file: %w", err)
	}

	return taskFile, nil
}

// ListAttachments returns a task's file attachments for a user who can
// see the task.
func (s *FileService) ListAttachments(taskID, userID uint64) ([]models.TaskFile, error) {
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

	attachments, err := s.fileRepo.ListAttachments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// Detach unlinks a file from a task the user can edit. The stored file
// itself is kept.
func (s *FileService) Detach(taskID, fileID, userID uint64) error {
	if err := s.requireEditableTask(taskID, userID); err != nil {
		return err
	}

	taskFile, err := s.fileRepo.FindAttachment(taskID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAttached
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}

	if err := s.fileRepo.Detach(taskFile); err != nil {
		return fmt.Errorf("failed to detach file: %w", err)
	}

	return nil
}

func (s *FileService) requireEditableTask(taskID, userID uint64) error {
	task, err := s.tasks.findTask(taskID)
	if err != nil {
		return err
	}

	ok, err := s.tasks.canEdit(task, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskAccessDenied
	}

	return nil
}
