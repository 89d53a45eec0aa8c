package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/constants"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskGroupNotFound = errors.New("task group not found")
	ErrTaskStateNotFound = errors.New("task state not found")
	ErrTargetNotFound    = errors.New("target user not found")
	ErrTaskAccessDenied  = errors.New("no access to this task")
	ErrCrossProjectMove  = errors.New("task cannot move to a group in another project")
)

// TaskService manages task groups, tasks and task states. A task's
// project is derived through its group; a task outside any group has no
// project and is not subject to project gating.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	access   *AccessService
	logger   zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, access *AccessService, logger zerolog.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		access:   access,
		logger:   logger,
	}
}

// CreateGroup adds a task group to a project. Any project member may.
func (s *TaskService) CreateGroup(projectID, actorID uint64, name string) (*models.TaskGroup, error) {
	ok, err := s.access.HasAccess(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	group := &models.TaskGroup{
		Name:      name,
		ProjectID: projectID,
	}

	if err := s.taskRepo.CreateGroup(group); err != nil {
		return nil, fmt.Errorf("failed to create task group: %w", err)
	}

	return group, nil
}

// ListGroups returns a project's task groups. Any member may list.
func (s *TaskService) ListGroups(projectID, userID uint64) ([]models.TaskGroup, error) {
	ok, err := s.access.HasAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	groups, err := s.taskRepo.ListGroups(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task groups: %w", err)
	}
	return groups, nil
}

// RenameGroup changes a group's name. Any project member may.
func (s *TaskService) RenameGroup(groupID, actorID uint64, name string) (*models.TaskGroup, error) {
	group, err := s.requireGroupMember(groupID, actorID)
	if err != nil {
		return nil, err
	}

	group.Name = name
	if err := s.taskRepo.UpdateGroup(group); err != nil {
		return nil, fmt.Errorf("failed to update task group: %w", err)
	}

	return group, nil
}

// DeleteGroup removes a group together with its tasks. Any project
// member may.
func (s *TaskService) DeleteGroup(groupID, actorID uint64) error {
	group, err := s.requireGroupMember(groupID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.DeleteGroup(group); err != nil {
		return fmt.Errorf("failed to delete task group: %w", err)
	}

	s.logger.Info().Uint64("group_id", groupID).Uint64("user_id", actorID).Msg("task group deleted")
	return nil
}

// CreateTaskInput holds the fields for creating a task.
type CreateTaskInput struct {
	Title    string
	Text     string
	TargetID *uint64
	StateID  *uint64
	GroupID  *uint64
	Deadline *time.Time
	Tags     string
}

// CreateTask creates a task authored by authorID. If a group is given
// the author must be a member of its project. A missing state falls
// back to the first configured state, which is created as "To Do" when
// the table is empty.
func (s *TaskService) CreateTask(authorID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.TargetID != nil {
		if _, err := s.userRepo.FindByID(*input.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, fmt.Errorf("failed to find target user: %w", err)
		}
	}

	if input.GroupID != nil {
		group, err := s.taskRepo.FindGroup(*input.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskGroupNotFound
			}
			return nil, fmt.Errorf("failed to find task group: %w", err)
		}
		ok, err := s.access.HasAccess(group.ProjectID, authorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotProjectMember
		}
	}

	stateID, err := s.resolveState(input.StateID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:    input.Title,
		Text:     input.Text,
		AuthorID: &authorID,
		TargetID: input.TargetID,
		StateID:  stateID,
		GroupID:  input.GroupID,
		Deadline: input.Deadline,
		Tags:     input.Tags,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info().Uint64("task_id", task.ID).Uint64("author_id", authorID).Msg("task created")
	return task, nil
}

// GetTask returns a task the user may see: its author, its target, or
// any member of its project.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "Author", "Target", "State", "Group", "Files", "Files.File")
	if err != nil {
		return nil, err
	}

	ok, err := s.canSee(task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// List returns tasks with pagination, visible to any authenticated
// user.
func (s *TaskService) List(offset, limit int) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListMyTasks returns tasks the user authored or is targeted by,
// optionally filtered by closed state.
func (s *TaskService) ListMyTasks(userID uint64, closed *bool) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListForUser(userID, closed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListProjectTasks returns the tasks reachable through a project's
// groups. Any member may list.
func (s *TaskService) ListProjectTasks(projectID, userID uint64, closed *bool) ([]models.Task, error) {
	ok, err := s.access.HasAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	tasks, err := s.taskRepo.ListByProject(projectID, closed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskInput holds optional task fields; nil means keep.
type UpdateTaskInput struct {
	Title      *string
	Text       *string
	TargetID   *uint64
	StateID    *uint64
	GroupID    *uint64
	ClearGroup bool
	Deadline   *time.Time
	Tags       *string
}

// UpdateTask applies the given changes. The actor must be able to edit
// the task; moving it into a group of a different project is refused.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.canEdit(task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskAccessDenied
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Text != nil {
		task.Text = *input.Text
	}
	if input.TargetID != nil {
		if _, err := s.userRepo.FindByID(*input.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, fmt.Errorf("failed to find target user: %w", err)
		}
		task.TargetID = input.TargetID
	}
	if input.StateID != nil {
		if _, err := s.taskRepo.FindState(*input.StateID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskStateNotFound
			}
			return nil, fmt.Errorf("failed to find task state: %w", err)
		}
		task.StateID = input.StateID
	}
	if input.ClearGroup {
		task.GroupID = nil
	} else if input.GroupID != nil {
		if err := s.checkGroupMove(task, *input.GroupID, userID); err != nil {
			return nil, err
		}
		task.GroupID = input.GroupID
	}
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// CloseTask marks a task closed. Closing a closed task is a no-op.
func (s *TaskService) CloseTask(taskID, userID uint64) (*models.Task, error) {
	return s.setClosed(taskID, userID, true)
}

// ReopenTask marks a task open again. Reopening an open task is a
// no-op.
func (s *TaskService) ReopenTask(taskID, userID uint64) (*models.Task, error) {
	return s.setClosed(taskID, userID, false)
}

// DeleteTask removes a task and its comments, marks, pins and file
// attachments.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	ok, err := s.canEdit(task, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskAccessDenied
	}

	if err := s.taskRepo.Delete(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info().Uint64("task_id", taskID).Uint64("user_id", userID).Msg("task deleted")
	return nil
}

// ListStates returns all configured task states.
func (s *TaskService) ListStates() ([]models.TaskState, error) {
	states, err := s.taskRepo.ListStates()
	if err != nil {
		return nil, fmt.Errorf("failed to list task states: %w", err)
	}
	return states, nil
}

func (s *TaskService) setClosed(taskID, userID uint64, closed bool) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.canEdit(task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskAccessDenied
	}

	// Closing a closed task (or reopening an open one) is a no-op
	task.IsClosed = closed
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// resolveState returns a valid state ID, defaulting to the first state
// and seeding "To Do" when none exist yet.
func (s *TaskService) resolveState(stateID *uint64) (*uint64, error) {
	if stateID != nil && *stateID != 0 {
		state, err := s.taskRepo.FindState(*stateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskStateNotFound
			}
			return nil, fmt.Errorf("failed to find task state: %w", err)
		}
		return &state.ID, nil
	}

	state, err := s.taskRepo.FirstState()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find default task state: %w", err)
		}
		state = &models.TaskState{Name: constants.DefaultTaskStateName}
		if err := s.taskRepo.CreateState(state); err != nil {
			return nil, fmt.Errorf("failed to seed default task state: %w", err)
		}
	}

	return &state.ID, nil
}

func (s *TaskService) checkGroupMove(task *models.Task, newGroupID, userID uint64) error {
	newGroup, err := s.taskRepo.FindGroup(newGroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskGroupNotFound
		}
		return fmt.Errorf("failed to find task group: %w", err)
	}

	if task.GroupID != nil {
		current, err := s.access.TaskProjectID(task)
		if err != nil {
			return err
		}
		if current != nil && *current != newGroup.ProjectID {
			return ErrCrossProjectMove
		}
	}

	ok, err := s.access.HasAccess(newGroup.ProjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotProjectMember
	}

	return nil
}

// canSee allows the author, the target, and any member of the task's
// project. A task without a group has no project and no gate: any
// authenticated user may see it.
func (s *TaskService) canSee(task *models.Task, userID uint64) (bool, error) {
	if (task.AuthorID != nil && *task.AuthorID == userID) || (task.TargetID != nil && *task.TargetID == userID) {
		return true, nil
	}

	projectID, err := s.access.TaskProjectID(task)
	if err != nil {
		return false, err
	}
	if projectID == nil {
		return true, nil
	}

	return s.access.HasAccess(*projectID, userID)
}

// canEdit allows the author and any member of the task's project. A
// task without a group has no project and no gate: any authenticated
// user may edit it.
func (s *TaskService) canEdit(task *models.Task, userID uint64) (bool, error) {
	if task.AuthorID != nil && *task.AuthorID == userID {
		return true, nil
	}

	projectID, err := s.access.TaskProjectID(task)
	if err != nil {
		return false, err
	}
	if projectID == nil {
		return true, nil
	}

	return s.access.HasAccess(*projectID, userID)
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) requireGroupMember(groupID, actorID uint64) (*models.TaskGroup, error) {
	group, err := s.taskRepo.FindGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskGroupNotFound
		}
		return nil, fmt.Errorf("failed to find task group: %w", err)
	}

	ok, err := s.access.HasAccess(group.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	return group, nil
}
