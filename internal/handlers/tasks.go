package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
	"github.com/workbenchflow/workbench-api/internal/utils"
)

// TaskHandler serves tasks and task states.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(middleware.GetUserID(c), services.CreateTaskInput{
		Title:    req.Title,
		Text:     req.Text,
		TargetID: req.TargetID,
		StateID:  req.StateID,
		GroupID:  req.GroupID,
		Deadline: req.Deadline,
		Tags:     req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask handles GET /tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	task, err := h.taskService.GetTask(taskID, middleware.GetUserID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks handles GET /tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.List(params.Offset, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"page":  params.Page,
		"limit": params.Limit,
	})
}

// ListMyTasks handles GET /tasks/my
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	closed, ok := parseClosedFilter(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMyTasks(middleware.GetUserID(c), closed)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// ListProjectTasks handles GET /projects/:id/tasks
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	closed, ok := parseClosedFilter(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListProjectTasks(projectID, middleware.GetUserID(c), closed)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// UpdateTask handles PATCH /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, middleware.GetUserID(c), services.UpdateTaskInput{
		Title:      req.Title,
		Text:       req.Text,
		TargetID:   req.TargetID,
		StateID:    req.StateID,
		GroupID:    req.GroupID,
		ClearGroup: req.ClearGroup,
		Deadline:   req.Deadline,
		Tags:       req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CloseTask handles POST /tasks/:id/close
func (h *TaskHandler) CloseTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	task, err := h.taskService.CloseTask(taskID, middleware.GetUserID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ReopenTask handles POST /tasks/:id/reopen
func (h *TaskHandler) ReopenTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	task, err := h.taskService.ReopenTask(taskID, middleware.GetUserID(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask handles DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.taskService.DeleteTask(taskID, middleware.GetUserID(c)); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// ListStates handles GET /task-states
func (h *TaskHandler) ListStates(c *gin.Context) {
	states, err := h.taskService.ListStates()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"states": dto.ToTaskStateDTOs(states)})
}

// parseClosedFilter reads the optional ?closed=true|false query. The
// second result is false when the value is present but malformed; the
// response has already been written in that case.
func parseClosedFilter(c *gin.Context) (*bool, bool) {
	raw := c.Query("closed")
	if raw == "" {
		return nil, true
	}

	closed, err := strconv.ParseBool(raw)
	if err != nil {
		apperrors.BadRequest(c, "Invalid closed filter")
		return nil, false
	}
	return &closed, true
}
