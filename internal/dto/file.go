package dto

import (
	"time"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// StoreFileDTO represents an uploaded file in API responses
type StoreFileDTO struct {
	ID         uint64    `json:"id"`
	SourceName string    `json:"source_name"`
	TagName    string    `json:"tag_name"`
	AuthorID   *uint64   `json:"author_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskFileDTO represents a task's file attachment in API responses
type TaskFileDTO struct {
	ID     uint64        `json:"id"`
	TaskID uint64        `json:"task_id"`
	FileID uint64        `json:"file_id"`
	File   *StoreFileDTO `json:"file,omitempty"`
}

// AttachFileRequest is the payload for attaching a stored file to a
// task
type AttachFileRequest struct {
	FileID uint64 `json:"file_id" binding:"required"`
}

// ToStoreFileDTO converts a StoreFile model to StoreFileDTO
func ToStoreFileDTO(file models.StoreFile) StoreFileDTO {
	return StoreFileDTO{
		ID:         file.ID,
		SourceName: file.SourceName,
		TagName:    file.TagName,
		AuthorID:   file.AuthorID,
		CreatedAt:  file.CreatedAt,
	}
}

// ToTaskFileDTO converts a TaskFile model to TaskFileDTO
func ToTaskFileDTO(taskFile models.TaskFile) TaskFileDTO {
	dto := TaskFileDTO{
		ID:     taskFile.ID,
		TaskID: taskFile.TaskID,
		FileID: taskFile.FileID,
	}

	if taskFile.File.ID != 0 {
		file := ToStoreFileDTO(taskFile.File)
		dto.File = &file
	}

	return dto
}

// ToTaskFileDTOs converts a slice of attachments to TaskFileDTOs
func ToTaskFileDTOs(taskFiles []models.TaskFile) []TaskFileDTO {
	dtos := make([]TaskFileDTO, len(taskFiles))
	for i, taskFile := range taskFiles {
		dtos[i] = ToTaskFileDTO(taskFile)
	}
	return dtos
}
