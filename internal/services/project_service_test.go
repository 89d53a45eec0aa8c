package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workbenchflow/workbench-api/internal/models"
)

func TestProjectCreate_OwnerIsNotAMemberRow(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{
		Name:        "Flow",
		Description: "the big board",
	})
	require.NoError(t, err)

	// Ownership is derived; the membership table stays empty and the
	// owner still passes the member-gated listing.
	members, err := env.projects.ListMembers(project.ID, owner.ID)
	require.NoError(t, err)
	require.Empty(t, members)

	// Adding the owner as a member is refused outright
	_, err = env.projects.AddMember(project.ID, owner.ID, owner.ID, models.AccessCommon)
	require.ErrorIs(t, err, ErrCannotModifyOwner)
}

func TestProjectListMine(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")
	outsider := env.registerConfirmed(t, "outsider", "outsider@example.com")

	owned, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Owned"})
	require.NoError(t, err)
	joined, err := env.projects.Create(member.ID, CreateProjectInput{Name: "Joined"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(joined.ID, member.ID, owner.ID, models.AccessCommon)
	require.NoError(t, err)

	projects, err := env.projects.ListMine(owner.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	projects, err = env.projects.ListMine(outsider.ID)
	require.NoError(t, err)
	require.Empty(t, projects)

	// Soft-deleted projects disappear from the listing
	require.NoError(t, env.projects.Delete(owned.ID, owner.ID))
	projects, err = env.projects.ListMine(owner.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, joined.ID, projects[0].ID)
}

func TestProjectUpdate_RequiresAdmin(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	common := env.registerConfirmed(t, "common", "common@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, common.ID, models.AccessCommon)
	require.NoError(t, err)

	name := "Renamed"
	_, err = env.projects.Update(project.ID, common.ID, UpdateProjectInput{Name: &name})
	require.ErrorIs(t, err, ErrNotProjectAdmin)

	updated, err := env.projects.Update(project.ID, owner.ID, UpdateProjectInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}

func TestProjectMembers_OwnerRowIsUntouchable(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	admin := env.registerConfirmed(t, "admin", "admin@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, admin.ID, models.AccessAdmin)
	require.NoError(t, err)

	level := models.AccessCommon
	_, err = env.projects.UpdateMember(project.ID, admin.ID, owner.ID, UpdateMemberInput{AccessLevel: &level})
	require.ErrorIs(t, err, ErrCannotModifyOwner)

	err = env.projects.RemoveMember(project.ID, admin.ID, owner.ID)
	require.ErrorIs(t, err, ErrCannotModifyOwner)
}

func TestProjectMembers_SelfRemovalRefused(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	admin := env.registerConfirmed(t, "admin", "admin@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, admin.ID, models.AccessAdmin)
	require.NoError(t, err)

	err = env.projects.RemoveMember(project.ID, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrCannotRemoveSelf)
}

func TestProjectMembers_PromoteThenAct(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")
	victim := env.registerConfirmed(t, "victim", "victim@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, member.ID, models.AccessCommon)
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, victim.ID, models.AccessCommon)
	require.NoError(t, err)

	// A common member cannot remove anyone
	err = env.projects.RemoveMember(project.ID, member.ID, victim.ID)
	require.ErrorIs(t, err, ErrNotProjectAdmin)

	// After promotion the same call succeeds
	level := models.AccessAdmin
	_, err = env.projects.UpdateMember(project.ID, owner.ID, member.ID, UpdateMemberInput{AccessLevel: &level})
	require.NoError(t, err)

	require.NoError(t, env.projects.RemoveMember(project.ID, member.ID, victim.ID))
}

func TestProjectMembers_DuplicateAdd(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)

	_, err = env.projects.AddMember(project.ID, owner.ID, member.ID, models.AccessCommon)
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, member.ID, models.AccessCommon)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestProjectRoles_Lifecycle(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")

	project, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Flow"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(project.ID, owner.ID, member.ID, models.AccessCommon)
	require.NoError(t, err)

	rate := 40
	role, err := env.projects.CreateRole(project.ID, owner.ID, CreateRoleInput{RoleName: "Reviewer", Rate: &rate})
	require.NoError(t, err)

	// Assign the role to the member
	updated, err := env.projects.UpdateMember(project.ID, owner.ID, member.ID, UpdateMemberInput{RoleID: &role.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.RoleID)
	require.Equal(t, role.ID, *updated.RoleID)

	// Deleting the role clears the assignment instead of orphaning it
	require.NoError(t, env.projects.DeleteRole(project.ID, owner.ID, role.ID))

	refreshed, err := env.projectRepo.FindMember(project.ID, member.ID)
	require.NoError(t, err)
	require.Nil(t, refreshed.RoleID)
}

func TestProjectRoles_ForeignRoleRefused(t *testing.T) {
	env := setupServiceTestEnv(t)
	owner := env.registerConfirmed(t, "owner", "owner@example.com")
	member := env.registerConfirmed(t, "member", "member@example.com")

	first, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "First"})
	require.NoError(t, err)
	second, err := env.projects.Create(owner.ID, CreateProjectInput{Name: "Second"})
	require.NoError(t, err)
	_, err = env.projects.AddMember(first.ID, owner.ID, member.ID, models.AccessCommon)
	require.NoError(t, err)

	foreign, err := env.projects.CreateRole(second.ID, owner.ID, CreateRoleInput{RoleName: "Reviewer"})
	require.NoError(t, err)

	_, err = env.projects.UpdateMember(first.ID, owner.ID, member.ID, UpdateMemberInput{RoleID: &foreign.ID})
	require.ErrorIs(t, err, ErrRoleProjectMismatch)
}
