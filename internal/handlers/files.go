package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
)

// FileHandler serves file upload, download and task attachments.
type FileHandler struct {
	fileService *services.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadFile handles POST /files (multipart form, field "file")
func (h *FileHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, "A file form field is required")
		return
	}

	src, err := header.Open()
	if err != nil {
		apperrors.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(middleware.GetUserID(c), header.Filename, src)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToStoreFileDTO(*file))
}

// DownloadFile handles GET /files/:tagName
func (h *FileHandler) DownloadFile(c *gin.Context) {
	tagName := c.Param("tagName")
	if tagName == "" {
		apperrors.BadRequest(c, "Invalid file name")
		return
	}

	file, src, err := h.fileService.Open(tagName)
	if err != nil {
		respondFileError(c, err)
		return
	}
	defer src.Close()

	c.Header("Content-Disposition", `attachment; filename="`+file.SourceName+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, src); err != nil {
		// Headers are already out; nothing left to do but record it.
		_ = c.Error(err)
	}
}

// AttachFile handles POST /tasks/:id/files
func (h *FileHandler) AttachFile(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	taskFile, err := h.fileService.Attach(taskID, req.FileID, middleware.GetUserID(c))
	if err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskFileDTO(*taskFile))
}

// ListAttachments handles GET /tasks/:id/files
func (h *FileHandler) ListAttachments(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	attachments, err := h.fileService.ListAttachments(taskID, middleware.GetUserID(c))
	if err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": dto.ToTaskFileDTOs(attachments)})
}

// DetachFile handles DELETE /tasks/:id/files/:fileId
func (h *FileHandler) DetachFile(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}
	fileID, err := parseIDParam(c, "fileId")
	if err != nil {
		return
	}

	if err := h.fileService.Detach(taskID, fileID, middleware.GetUserID(c)); err != nil {
		respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File detached"})
}

func respondFileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		apperrors.NotFound(c, "File not found")
	case errors.Is(err, services.ErrAlreadyAttached):
		apperrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotAttached):
		apperrors.NotFound(c, "File is not attached to the task")
	default:
		respondTaskError(c, err)
	}
}
