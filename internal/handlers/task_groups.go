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

// TaskGroupHandler serves a project's task groups.
type TaskGroupHandler struct {
	taskService *services.TaskService
}

// NewTaskGroupHandler creates a new TaskGroupHandler.
func NewTaskGroupHandler(taskService *services.TaskService) *TaskGroupHandler {
	return &TaskGroupHandler{taskService: taskService}
}

// CreateGroup handles POST /projects/:id/groups
func (h *TaskGroupHandler) CreateGroup(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.CreateTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.taskService.CreateGroup(projectID, middleware.GetUserID(c), req.Name)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskGroupDTO(*group))
}

// ListGroups handles GET /projects/:id/groups
func (h *TaskGroupHandler) ListGroups(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	groups, err := h.taskService.ListGroups(projectID, middleware.GetUserID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": dto.ToTaskGroupDTOs(groups)})
}

// RenameGroup handles PATCH /groups/:id
func (h *TaskGroupHandler) RenameGroup(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.RenameTaskGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.taskService.RenameGroup(groupID, middleware.GetUserID(c), req.Name)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskGroupDTO(*group))
}

// DeleteGroup handles DELETE /groups/:id
func (h *TaskGroupHandler) DeleteGroup(c *gin.Context) {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.taskService.DeleteGroup(groupID, middleware.GetUserID(c)); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task group deleted"})
}

// respondTaskError maps task service errors to HTTP responses.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apperrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskGroupNotFound):
		apperrors.NotFound(c, "Task group not found")
	case errors.Is(err, services.ErrTaskStateNotFound):
		apperrors.NotFound(c, "Task state not found")
	case errors.Is(err, services.ErrTargetNotFound):
		apperrors.NotFound(c, "Target user not found")
	case errors.Is(err, services.ErrTaskAccessDenied),
		errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrNotProjectAdmin):
		apperrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCrossProjectMove):
		apperrors.BadRequestWithCode(c, apperrors.ErrCodeInvalidOperation, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apperrors.NotFound(c, "Project not found")
	default:
		apperrors.InternalError(c, "")
	}
}
