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

// CommentHandler serves task comments.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment handles POST /tasks/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(taskID, middleware.GetUserID(c), req.Text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments handles GET /tasks/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	comments, err := h.commentService.ListByTask(taskID, middleware.GetUserID(c))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

// UpdateComment handles PATCH /comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(commentID, middleware.GetUserID(c), req.Text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment handles DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.commentService.Delete(commentID, middleware.GetUserID(c)); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		apperrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrNotCommentAuthor):
		apperrors.Forbidden(c, err.Error())
	default:
		respondTaskError(c, err)
	}
}
