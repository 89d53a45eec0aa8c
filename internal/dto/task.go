package dto

import (
	"time"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// TaskGroupDTO represents a task group in API responses
type TaskGroupDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	ProjectID uint64    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskStateDTO represents a task state in API responses
type TaskStateDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64        `json:"id"`
	Title     string        `json:"title"`
	Text      string        `json:"text"`
	AuthorID  *uint64       `json:"author_id,omitempty"`
	TargetID  *uint64       `json:"target_id,omitempty"`
	StateID   *uint64       `json:"state_id,omitempty"`
	GroupID   *uint64       `json:"group_id,omitempty"`
	IsClosed  bool          `json:"is_closed"`
	Deadline  *time.Time    `json:"deadline,omitempty"`
	Tags      string        `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Author    *UserDTO      `json:"author,omitempty"`
	Target    *UserDTO      `json:"target,omitempty"`
	State     *TaskStateDTO `json:"state,omitempty"`
	Group     *TaskGroupDTO `json:"group,omitempty"`
	Files     []TaskFileDTO `json:"files,omitempty"`
}

// MarkDTO represents a mark in API responses
type MarkDTO struct {
	ID          uint64    `json:"id"`
	TaskID      uint64    `json:"task_id"`
	AuthorID    uint64    `json:"author_id"`
	Description string    `json:"description"`
	Rate        *int      `json:"rate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	AuthorID  uint64    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PinDTO represents a pin in API responses
type PinDTO struct {
	ID     uint64 `json:"id"`
	UserID uint64 `json:"user_id"`
	TaskID uint64 `json:"task_id"`
}

// CreateTaskGroupRequest is the payload for creating a task group
type CreateTaskGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// RenameTaskGroupRequest is the payload for renaming a task group
type RenameTaskGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Title    string     `json:"title" binding:"required,min=1,max=75"`
	Text     string     `json:"text" binding:"required"`
	TargetID *uint64    `json:"target_id,omitempty"`
	StateID  *uint64    `json:"state_id,omitempty"`
	GroupID  *uint64    `json:"group_id,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Tags     string     `json:"tags"`
}

// UpdateTaskRequest is the payload for task edits; absent fields are
// left untouched. ClearGroup detaches the task from its group.
type UpdateTaskRequest struct {
	Title      *string    `json:"title,omitempty" binding:"omitempty,min=1,max=75"`
	Text       *string    `json:"text,omitempty"`
	TargetID   *uint64    `json:"target_id,omitempty"`
	StateID    *uint64    `json:"state_id,omitempty"`
	GroupID    *uint64    `json:"group_id,omitempty"`
	ClearGroup bool       `json:"clear_group,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Tags       *string    `json:"tags,omitempty"`
}

// CreateMarkRequest is the payload for marking a task
type CreateMarkRequest struct {
	Description string `json:"description" binding:"required"`
	Rate        *int   `json:"rate,omitempty" binding:"omitempty,min=0,max=10"`
}

// UpdateMarkRequest is the payload for mark edits; absent fields are
// left untouched
type UpdateMarkRequest struct {
	Description *string `json:"description,omitempty"`
	Rate        *int    `json:"rate,omitempty" binding:"omitempty,min=0,max=10"`
}

// CreateCommentRequest is the payload for commenting on a task
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentRequest is the payload for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ToTaskGroupDTO converts a TaskGroup model to TaskGroupDTO
func ToTaskGroupDTO(group models.TaskGroup) TaskGroupDTO {
	return TaskGroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		ProjectID: group.ProjectID,
		CreatedAt: group.CreatedAt,
	}
}

// ToTaskGroupDTOs converts a slice of groups to TaskGroupDTOs
func ToTaskGroupDTOs(groups []models.TaskGroup) []TaskGroupDTO {
	dtos := make([]TaskGroupDTO, len(groups))
	for i, group := range groups {
		dtos[i] = ToTaskGroupDTO(group)
	}
	return dtos
}

// ToTaskStateDTO converts a TaskState model to TaskStateDTO
func ToTaskStateDTO(state models.TaskState) TaskStateDTO {
	return TaskStateDTO{
		ID:   state.ID,
		Name: state.Name,
	}
}

// ToTaskStateDTOs converts a slice of states to TaskStateDTOs
func ToTaskStateDTOs(states []models.TaskState) []TaskStateDTO {
	dtos := make([]TaskStateDTO, len(states))
	for i, state := range states {
		dtos[i] = ToTaskStateDTO(state)
	}
	return dtos
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Text:      task.Text,
		AuthorID:  task.AuthorID,
		TargetID:  task.TargetID,
		StateID:   task.StateID,
		GroupID:   task.GroupID,
		IsClosed:  task.IsClosed,
		Deadline:  task.Deadline,
		Tags:      task.Tags,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}

	// Relations are included only when preloaded
	if task.Author != nil && task.Author.ID != 0 {
		author := ToUserDTO(*task.Author, false)
		dto.Author = &author
	}
	if task.Target != nil && task.Target.ID != 0 {
		target := ToUserDTO(*task.Target, false)
		dto.Target = &target
	}
	if task.State != nil && task.State.ID != 0 {
		state := ToTaskStateDTO(*task.State)
		dto.State = &state
	}
	if task.Group != nil && task.Group.ID != 0 {
		group := ToTaskGroupDTO(*task.Group)
		dto.Group = &group
	}
	if len(task.Files) > 0 {
		dto.Files = ToTaskFileDTOs(task.Files)
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks to TaskDTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToMarkDTO converts a Mark model to MarkDTO
func ToMarkDTO(mark models.Mark) MarkDTO {
	return MarkDTO{
		ID:          mark.ID,
		TaskID:      mark.TaskID,
		AuthorID:    mark.AuthorID,
		Description: mark.Description,
		Rate:        mark.Rate,
		CreatedAt:   mark.CreatedAt,
	}
}

// ToMarkDTOs converts a slice of marks to MarkDTOs
func ToMarkDTOs(marks []models.Mark) []MarkDTO {
	dtos := make([]MarkDTO, len(marks))
	for i, mark := range marks {
		dtos[i] = ToMarkDTO(mark)
	}
	return dtos
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentDTOs converts a slice of comments to CommentDTOs
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}

// ToPinDTO converts a Pin model to PinDTO
func ToPinDTO(pin models.Pin) PinDTO {
	return PinDTO{
		ID:     pin.ID,
		UserID: pin.UserID,
		TaskID: pin.TaskID,
	}
}

// ToPinDTOs converts a slice of pins to PinDTOs
func ToPinDTOs(pins []models.Pin) []PinDTO {
	dtos := make([]PinDTO, len(pins))
	for i, pin := range pins {
		dtos[i] = ToPinDTO(pin)
	}
	return dtos
}
