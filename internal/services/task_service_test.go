package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workbenchflow/workbench-api/internal/models"
)

type taskFixture struct {
	env     *serviceTestEnv
	owner   *models.User
	member  *models.User
	project *models.Project
	group   *models.TaskGroup
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()
	env := setupServiceTestEnv(t)

	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, member.ID, models.AccessCommon)
	require.NoError(t, err)

	group, err := env.tasks.CreateGroup(project.ID, owner.ID, "Backlog")
	require.NoError(t, err)

	return taskFixture{env: env, owner: owner, member: member, project: project, group: group}
}

func TestTaskCreate_DefaultStateSeeded(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title: "first",
		Text:  "body",
	})
	require.NoError(t, err)
	require.NotNil(t, task.StateID)

	state, err := f.env.taskRepo.FindState(*task.StateID)
	require.NoError(t, err)
	require.Equal(t, "To Do", state.Name)

	// A second task reuses the seeded state instead of creating another
	second, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title: "second",
		Text:  "body",
	})
	require.NoError(t, err)
	require.Equal(t, *task.StateID, *second.StateID)

	states, err := f.env.tasks.ListStates()
	require.NoError(t, err)
	require.Len(t, states, 1)
}

func TestTaskCreate_GroupRequiresMembership(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	_, err := f.env.tasks.CreateTask(outsider.ID, CreateTaskInput{
		Title:   "sneaky",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.ErrorIs(t, err, ErrNotProjectMember)

	_, err = f.env.tasks.CreateTask(f.member.ID, CreateTaskInput{
		Title:   "legit",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)
}

func TestTaskGroups_AnyMemberMayManage(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	// A common member creates and renames groups
	group, err := f.env.tasks.CreateGroup(f.project.ID, f.member.ID, "Doing")
	require.NoError(t, err)

	renamed, err := f.env.tasks.RenameGroup(group.ID, f.member.ID, "In Progress")
	require.NoError(t, err)
	require.Equal(t, "In Progress", renamed.Name)

	// A non-member does neither
	_, err = f.env.tasks.CreateGroup(f.project.ID, outsider.ID, "Sneaky")
	require.ErrorIs(t, err, ErrNotProjectMember)

	_, err = f.env.tasks.RenameGroup(group.ID, outsider.ID, "Hijacked")
	require.ErrorIs(t, err, ErrNotProjectMember)
}

func TestTaskCreate_TargetMustExist(t *testing.T) {
	f := newTaskFixture(t)

	missing := uint64(9999)
	_, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:    "orphan target",
		Text:     "body",
		TargetID: &missing,
	})
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestTaskVisibility(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	grouped, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:   "grouped",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)

	// Any project member sees a grouped task
	_, err = f.env.tasks.GetTask(grouped.ID, f.member.ID)
	require.NoError(t, err)

	_, err = f.env.tasks.GetTask(grouped.ID, outsider.ID)
	require.ErrorIs(t, err, ErrTaskAccessDenied)

	// A task without a group has no project and no gate; anyone
	// authenticated may see it
	ungrouped, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:    "ungrouped",
		Text:     "body",
		TargetID: &f.member.ID,
	})
	require.NoError(t, err)

	_, err = f.env.tasks.GetTask(ungrouped.ID, f.member.ID)
	require.NoError(t, err)

	_, err = f.env.tasks.GetTask(ungrouped.ID, outsider.ID)
	require.NoError(t, err)
}

func TestUngroupedTask_OpenToAnyAuthenticatedUser(t *testing.T) {
	f := newTaskFixture(t)
	stranger := f.env.registerConfirmed(t, "stranger", "stranger@example.com")

	loose, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "loose", Text: "body"})
	require.NoError(t, err)

	title := "renamed by a stranger"
	updated, err := f.env.tasks.UpdateTask(loose.ID, stranger.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)

	closed, err := f.env.tasks.CloseTask(loose.ID, stranger.ID)
	require.NoError(t, err)
	require.True(t, closed.IsClosed)
}

func TestTaskUpdate_AnyProjectMember(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.member.ID, CreateTaskInput{
		Title:   "work",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)

	// The project owner may edit a member's task
	title := "retitled"
	_, err = f.env.tasks.UpdateTask(task.ID, f.owner.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)

	// So may a common member who is neither author nor admin
	other := f.env.registerConfirmed(t, "other", "other@example.com")
	_, err = f.env.projects.AddMember(f.project.ID, f.owner.ID, other.ID, models.AccessCommon)
	require.NoError(t, err)

	title = "retitled again"
	_, err = f.env.tasks.UpdateTask(task.ID, other.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)

	// A non-member may not
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")
	_, err = f.env.tasks.UpdateTask(task.ID, outsider.ID, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, ErrTaskAccessDenied)
}

func TestTaskUpdate_CrossProjectMoveRefused(t *testing.T) {
	f := newTaskFixture(t)

	otherProject, err := f.env.projects.Create(f.owner.ID, CreateProjectInput{Name: "Other"})
	require.NoError(t, err)
	otherGroup, err := f.env.tasks.CreateGroup(otherProject.ID, f.owner.ID, "Elsewhere")
	require.NoError(t, err)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:   "rooted",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)

	_, err = f.env.tasks.UpdateTask(task.ID, f.owner.ID, UpdateTaskInput{GroupID: &otherGroup.ID})
	require.ErrorIs(t, err, ErrCrossProjectMove)

	// Moving inside the same project is fine
	sibling, err := f.env.tasks.CreateGroup(f.project.ID, f.owner.ID, "Doing")
	require.NoError(t, err)
	updated, err := f.env.tasks.UpdateTask(task.ID, f.owner.ID, UpdateTaskInput{GroupID: &sibling.ID})
	require.NoError(t, err)
	require.Equal(t, sibling.ID, *updated.GroupID)

	// Detaching and re-attaching anywhere is also fine
	updated, err = f.env.tasks.UpdateTask(task.ID, f.owner.ID, UpdateTaskInput{ClearGroup: true})
	require.NoError(t, err)
	require.Nil(t, updated.GroupID)

	updated, err = f.env.tasks.UpdateTask(task.ID, f.owner.ID, UpdateTaskInput{GroupID: &otherGroup.ID})
	require.NoError(t, err)
	require.Equal(t, otherGroup.ID, *updated.GroupID)
}

func TestTaskCloseReopen(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "done soon", Text: "body"})
	require.NoError(t, err)

	closed, err := f.env.tasks.CloseTask(task.ID, f.owner.ID)
	require.NoError(t, err)
	require.True(t, closed.IsClosed)

	// Closing again is a harmless no-op
	closed, err = f.env.tasks.CloseTask(task.ID, f.owner.ID)
	require.NoError(t, err)
	require.True(t, closed.IsClosed)

	reopened, err := f.env.tasks.ReopenTask(task.ID, f.owner.ID)
	require.NoError(t, err)
	require.False(t, reopened.IsClosed)

	// As is reopening an open task
	reopened, err = f.env.tasks.ReopenTask(task.ID, f.owner.ID)
	require.NoError(t, err)
	require.False(t, reopened.IsClosed)
}

func TestTaskListMyTasks_ClosedFilter(t *testing.T) {
	f := newTaskFixture(t)

	open, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "open", Text: "body"})
	require.NoError(t, err)
	toClose, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "closing", Text: "body"})
	require.NoError(t, err)
	_, err = f.env.tasks.CloseTask(toClose.ID, f.owner.ID)
	require.NoError(t, err)

	// Targeted tasks show up too
	targeted, err := f.env.tasks.CreateTask(f.member.ID, CreateTaskInput{
		Title:    "for owner",
		Text:     "body",
		TargetID: &f.owner.ID,
	})
	require.NoError(t, err)

	all, err := f.env.tasks.ListMyTasks(f.owner.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	closedFilter := true
	closed, err := f.env.tasks.ListMyTasks(f.owner.ID, &closedFilter)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.Equal(t, toClose.ID, closed[0].ID)

	closedFilter = false
	openOnly, err := f.env.tasks.ListMyTasks(f.owner.ID, &closedFilter)
	require.NoError(t, err)
	require.Len(t, openOnly, 2)
	ids := []uint64{openOnly[0].ID, openOnly[1].ID}
	require.Contains(t, ids, open.ID)
	require.Contains(t, ids, targeted.ID)
}

func TestTaskListByProject(t *testing.T) {
	f := newTaskFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	_, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:   "in project",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)
	_, err = f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "loose", Text: "body"})
	require.NoError(t, err)

	tasks, err := f.env.tasks.ListProjectTasks(f.project.ID, f.member.ID, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "only tasks reached through the project's groups")

	_, err = f.env.tasks.ListProjectTasks(f.project.ID, outsider.ID, nil)
	require.ErrorIs(t, err, ErrNotProjectMember)
}

func TestTaskDelete_RemovesChildren(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:   "doomed",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)

	_, err = f.env.comments.Create(task.ID, f.member.ID, "a comment")
	require.NoError(t, err)
	_, err = f.env.pins.Pin(f.member.ID, task.ID)
	require.NoError(t, err)

	require.NoError(t, f.env.tasks.DeleteTask(task.ID, f.owner.ID))

	var comments, pins int64
	require.NoError(t, f.env.db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&comments).Error)
	require.NoError(t, f.env.db.Model(&models.Pin{}).Where("task_id = ?", task.ID).Count(&pins).Error)
	require.Zero(t, comments)
	require.Zero(t, pins)
}

func TestTaskGroupDelete_RemovesTasks(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:   "grouped",
		Text:    "body",
		GroupID: &f.group.ID,
	})
	require.NoError(t, err)

	// Only project members may delete a group
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")
	err = f.env.tasks.DeleteGroup(f.group.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotProjectMember)

	// A common member may
	require.NoError(t, f.env.tasks.DeleteGroup(f.group.ID, f.member.ID))

	_, err = f.env.tasks.GetTask(task.ID, f.owner.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskDeadlinePersists(t *testing.T) {
	f := newTaskFixture(t)

	deadline := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:    "dated",
		Text:     "body",
		Deadline: &deadline,
		Tags:     "urgent,q3",
	})
	require.NoError(t, err)

	loaded, err := f.env.tasks.GetTask(task.ID, f.owner.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Deadline)
	require.True(t, loaded.Deadline.Equal(deadline))
	require.Equal(t, "urgent,q3", loaded.Tags)
}
