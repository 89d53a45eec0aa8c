package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchflow/workbench-api/internal/models"
)

func TestAccess_OwnerShortCircuits(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)

	// No member row exists for the owner, yet both gates pass
	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&count).Error)
	require.Zero(t, count)

	ok, err := env.access.HasAccess(project.ID, owner.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = env.access.HasAdminAccess(project.ID, owner.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAccess_MemberLevels(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	admin := env.registerConfirmed(t, "admin", "admin@example.com")
	common := env.registerConfirmed(t, "common", "common@example.com")
	outsider := env.registerConfirmed(t, "outsider", "outsider@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)

	_, err = env.projects.AddMember(project.ID, owner.ID, admin.ID, models.AccessAdmin)
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, common.ID, models.AccessCommon)
	require.NoError(t, err)

	cases := []struct {
		name   string
		userID uint64
		access bool
		admin  bool
	}{
		{"owner", owner.ID, true, true},
		{"admin member", admin.ID, true, true},
		{"common member", common.ID, true, false},
		{"outsider", outsider.ID, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := env.access.HasAccess(project.ID, tc.userID)
			require.NoError(t, err)
			require.Equal(t, tc.access, ok)

			ok, err = env.access.HasAdminAccess(project.ID, tc.userID)
			require.NoError(t, err)
			require.Equal(t, tc.admin, ok)
		})
	}
}

func TestAccess_MissingOrDeletedProject(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")

	ok, err := env.access.HasAccess(9999, owner.ID)
	require.NoError(t, err)
	require.False(t, ok)

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	require.NoError(t, env.projects.Delete(project.ID, owner.ID))

	ok, err = env.access.HasAccess(project.ID, owner.ID)
	require.NoError(t, err)
	require.False(t, ok, "a soft-deleted project grants nothing, even to its owner")
}

func TestAccess_TaskProjectID(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	group, err := env.tasks.CreateGroup(project.ID, owner.ID, "Backlog")
	require.NoError(t, err)

	grouped, err := env.tasks.CreateTask(owner.ID, CreateTaskInput{
		Title:   "grouped",
		Text:    "body",
		GroupID: &group.ID,
	})
	require.NoError(t, err)

	ungrouped, err := env.tasks.CreateTask(owner.ID, CreateTaskInput{
		Title: "ungrouped",
		Text:  "body",
	})
	require.NoError(t, err)

	projectID, err := env.access.TaskProjectID(grouped)
	require.NoError(t, err)
	require.NotNil(t, projectID)
	require.Equal(t, project.ID, *projectID)

	projectID, err = env.access.TaskProjectID(ungrouped)
	require.NoError(t, err)
	require.Nil(t, projectID, "ungrouped tasks have no governing project")
}
