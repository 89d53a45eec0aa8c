package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
)

// MarkHandler serves task marks.
type MarkHandler struct {
	markService *services.MarkService
}

// NewMarkHandler creates a new MarkHandler.
func NewMarkHandler(markService *services.MarkService) *MarkHandler {
	return &MarkHandler{markService: markService}
}

// CreateMark handles POST /tasks/:id/marks
func (h *MarkHandler) CreateMark(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.CreateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	mark, err := h.markService.Create(taskID, middleware.GetUserID(c), services.CreateMarkInput{
		Description: req.Description,
		Rate:        req.Rate,
	})
	if err != nil {
		respondMarkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMarkDTO(*mark))
}

// ListMarks handles GET /tasks/:id/marks
func (h *MarkHandler) ListMarks(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	marks, err := h.markService.ListByTask(taskID, middleware.GetUserID(c))
	if err != nil {
		respondMarkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marks": dto.ToMarkDTOs(marks)})
}

// UpdateMark handles PATCH /marks/:id
func (h *MarkHandler) UpdateMark(c *gin.Context) {
	markID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	mark, err := h.markService.Update(markID, middleware.GetUserID(c), services.UpdateMarkInput{
		Description: req.Description,
		Rate:        req.Rate,
	})
	if err != nil {
		respondMarkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMarkDTO(*mark))
}

// DeleteMark handles DELETE /marks/:id
func (h *MarkHandler) DeleteMark(c *gin.Context) {
	markID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.markService.Delete(markID, middleware.GetUserID(c)); err != nil {
		respondMarkError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mark deleted"})
}

func respondMarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMarkNotFound):
		apperrors.NotFound(c, "Mark not found")
	case errors.Is(err, services.ErrTaskNotInProject):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeInvalidOperation, err.Error())
	case errors.Is(err, services.ErrInvalidMarkRate):
		apperrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMarkAccessDenied), errors.Is(err, services.ErrNotMarkAuthor):
		apperrors.Forbidden(c, err.Error())
	default:
		respondTaskError(c, err)
	}
}
