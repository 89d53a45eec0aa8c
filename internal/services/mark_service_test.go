package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchflow/workbench-api/internal/models"
)

type markFixture struct {
	taskFixture
	task *models.Task
}

func newMarkFixture(t *testing.T) markFixture {
	t.Helper()
	f := newTaskFixture(t)

	task, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{
		Title:    "reviewed work",
		Text:     "body",
		TargetID: &f.member.ID,
		GroupID:  &f.group.ID,
	})
	require.NoError(t, err)

	return markFixture{taskFixture: f, task: task}
}

func TestMarkCreate_AdminMayMarkAnyTask(t *testing.T) {
	f := newMarkFixture(t)

	rate := 8
	mark, err := f.env.marks.Create(f.task.ID, f.owner.ID, CreateMarkInput{
		Description: "solid work",
		Rate:        &rate,
	})
	require.NoError(t, err)
	require.Equal(t, f.owner.ID, mark.AuthorID)
	require.Equal(t, 8, *mark.Rate)
}

func TestMarkCreate_TargetMayMarkOwnTask(t *testing.T) {
	f := newMarkFixture(t)

	_, err := f.env.marks.Create(f.task.ID, f.member.ID, CreateMarkInput{Description: "self review"})
	require.NoError(t, err)
}

func TestMarkCreate_NonTargetCommonMemberRefused(t *testing.T) {
	f := newMarkFixture(t)
	other := f.env.registerConfirmed(t, "other", "other@example.com")
	_, err := f.env.projects.AddMember(f.project.ID, f.owner.ID, other.ID, models.AccessCommon)
	require.NoError(t, err)

	_, err = f.env.marks.Create(f.task.ID, other.ID, CreateMarkInput{Description: "drive-by"})
	require.ErrorIs(t, err, ErrMarkAccessDenied)
}

func TestMarkCreate_UngroupedTaskRefused(t *testing.T) {
	f := newMarkFixture(t)

	loose, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "loose", Text: "body"})
	require.NoError(t, err)

	_, err = f.env.marks.Create(loose.ID, f.owner.ID, CreateMarkInput{Description: "nope"})
	require.ErrorIs(t, err, ErrTaskNotInProject)
}

func TestMarkCreate_RateBounds(t *testing.T) {
	f := newMarkFixture(t)

	for _, rate := range []int{-1, 11} {
		r := rate
		_, err := f.env.marks.Create(f.task.ID, f.owner.ID, CreateMarkInput{
			Description: "out of range",
			Rate:        &r,
		})
		require.ErrorIs(t, err, ErrInvalidMarkRate)
	}

	for _, rate := range []int{0, 10} {
		r := rate
		_, err := f.env.marks.Create(f.task.ID, f.owner.ID, CreateMarkInput{
			Description: "boundary",
			Rate:        &r,
		})
		require.NoError(t, err)
	}
}

func TestMarkUpdate_AuthorOrAdminOnly(t *testing.T) {
	f := newMarkFixture(t)

	mark, err := f.env.marks.Create(f.task.ID, f.member.ID, CreateMarkInput{Description: "mine"})
	require.NoError(t, err)

	// The author edits their own mark
	text := "updated"
	updated, err := f.env.marks.Update(mark.ID, f.member.ID, UpdateMarkInput{Description: &text})
	require.NoError(t, err)
	require.Equal(t, "updated", updated.Description)

	// An admin may edit anyone's mark
	text = "admin override"
	_, err = f.env.marks.Update(mark.ID, f.owner.ID, UpdateMarkInput{Description: &text})
	require.NoError(t, err)

	// Another common member is not the target and fails the base gate
	other := f.env.registerConfirmed(t, "other", "other@example.com")
	_, err = f.env.projects.AddMember(f.project.ID, f.owner.ID, other.ID, models.AccessCommon)
	require.NoError(t, err)

	_, err = f.env.marks.Update(mark.ID, other.ID, UpdateMarkInput{Description: &text})
	require.ErrorIs(t, err, ErrMarkAccessDenied)
}

func TestMarkUpdate_AuthorWithoutAccessRefused(t *testing.T) {
	f := newMarkFixture(t)

	mark, err := f.env.marks.Create(f.task.ID, f.member.ID, CreateMarkInput{Description: "mine"})
	require.NoError(t, err)

	// Authorship alone is not enough once project access is gone
	require.NoError(t, f.env.projects.RemoveMember(f.project.ID, f.owner.ID, f.member.ID))

	text := "still mine?"
	_, err = f.env.marks.Update(mark.ID, f.member.ID, UpdateMarkInput{Description: &text})
	require.ErrorIs(t, err, ErrMarkAccessDenied)

	require.ErrorIs(t, f.env.marks.Delete(mark.ID, f.member.ID), ErrMarkAccessDenied)
}

func TestMarkDelete(t *testing.T) {
	f := newMarkFixture(t)

	mark, err := f.env.marks.Create(f.task.ID, f.member.ID, CreateMarkInput{Description: "temp"})
	require.NoError(t, err)

	require.NoError(t, f.env.marks.Delete(mark.ID, f.owner.ID))
	require.ErrorIs(t, f.env.marks.Delete(mark.ID, f.owner.ID), ErrMarkNotFound)
}

func TestMarkList_MembersOnly(t *testing.T) {
	f := newMarkFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	_, err := f.env.marks.Create(f.task.ID, f.owner.ID, CreateMarkInput{Description: "one"})
	require.NoError(t, err)

	marks, err := f.env.marks.ListByTask(f.task.ID, f.member.ID)
	require.NoError(t, err)
	require.Len(t, marks, 1)

	_, err = f.env.marks.ListByTask(f.task.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotProjectMember)
}

func TestMarkList_UngroupedTaskNotGated(t *testing.T) {
	f := newMarkFixture(t)
	outsider := f.env.registerConfirmed(t, "outsider", "outsider@example.com")

	loose, err := f.env.tasks.CreateTask(f.owner.ID, CreateTaskInput{Title: "loose", Text: "body"})
	require.NoError(t, err)

	marks, err := f.env.marks.ListByTask(loose.ID, outsider.ID)
	require.NoError(t, err)
	require.Empty(t, marks)
}
