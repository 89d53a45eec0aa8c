package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrNotProjectMember    = errors.New("user is not a member of the project")
	ErrNotProjectAdmin     = errors.New("admin access required")
	ErrAlreadyMember       = errors.New("user is already a member")
	ErrCannotModifyOwner   = errors.New("the owner's membership cannot be changed")
	ErrCannotRemoveSelf    = errors.New("members cannot remove themselves")
	ErrRoleProjectMismatch = errors.New("role belongs to a different project")
)

// ProjectService manages projects, their memberships and roles.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *AccessService
	logger      zerolog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, access *AccessService, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
		logger:      logger,
	}
}

// CreateProjectInput holds the fields for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	LogoID      *uint64
}

// Create creates a project owned by ownerID. Ownership is a derived
// capability, not a member row; the owner never appears in the
// membership table.
func (s *ProjectService) Create(ownerID uint64, input CreateProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
		LogoID:      input.LogoID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info().Uint64("project_id", project.ID).Uint64("owner_id", ownerID).Msg("project created")
	return project, nil
}

// Get returns a project the user can see.
func (s *ProjectService) Get(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	ok, err := s.access.HasAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	return project, nil
}

// List returns active projects with pagination. Visible to any
// authenticated user; project contents stay behind the access checks.
func (s *ProjectService) List(offset, limit int) ([]models.Project, error) {
	projects, err := s.projectRepo.List(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListMine returns the projects the user owns or is a member of.
func (s *ProjectService) ListMine(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput holds optional project fields; nil means keep.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	LogoID      *uint64
}

// Update applies the given changes. Admin access is required.
func (s *ProjectService) Update(projectID, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.requireAdmin(projectID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.LogoID != nil {
		project.LogoID = input.LogoID
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete soft-deletes a project. Admin access is required; the rows
// stay in place and only the project stops being visible.
func (s *ProjectService) Delete(projectID, userID uint64) error {
	project, err := s.requireAdmin(projectID, userID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.SoftDelete(project); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info().Uint64("project_id", projectID).Uint64("user_id", userID).Msg("project deleted")
	return nil
}

// AddMember adds a user to the project with the given access level.
// Admin access is required.
func (s *ProjectService) AddMember(projectID, actorID, memberID uint64, level models.AccessLevel) (*models.ProjectMember, error) {
	project, err := s.requireAdmin(projectID, actorID)
	if err != nil {
		return nil, err
	}

	// The owner already holds every permission and never appears in
	// the membership table.
	if memberID == project.OwnerID {
		return nil, ErrCannotModifyOwner
	}

	if _, err := s.userRepo.FindByID(memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, memberID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if level == "" {
		level = models.AccessCommon
	}

	member := &models.ProjectMember{
		ProjectID:   projectID,
		MemberID:    memberID,
		AccessLevel: level,
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info().Uint64("project_id", projectID).Uint64("member_id", memberID).Msg("member added")
	return member, nil
}

// ListMembers returns the project's member rows. Any member may list.
func (s *ProjectService) ListMembers(projectID, userID uint64) ([]models.ProjectMember, error) {
	if _, err := s.requireMember(projectID, userID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// UpdateMemberInput holds optional membership fields; nil means keep.
type UpdateMemberInput struct {
	AccessLevel *models.AccessLevel
	RoleID      *uint64
	ClearRole   bool
}

// UpdateMember changes a member's access level or role. Admin access is
// required and the owner's row is untouchable.
func (s *ProjectService) UpdateMember(projectID, actorID, memberID uint64, input UpdateMemberInput) (*models.ProjectMember, error) {
	project, err := s.requireAdmin(projectID, actorID)
	if err != nil {
		return nil, err
	}

	if memberID == project.OwnerID {
		return nil, ErrCannotModifyOwner
	}

	member, err := s.projectRepo.FindMember(projectID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if input.AccessLevel != nil {
		member.AccessLevel = *input.AccessLevel
	}
	if input.ClearRole {
		member.RoleID = nil
	} else if input.RoleID != nil {
		role, err := s.findProjectRole(projectID, *input.RoleID)
		if err != nil {
			return nil, err
		}
		member.RoleID = &role.ID
	}

	if err := s.projectRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a member from the project. Admin access is
// required; the owner's row is untouchable and self-removal is refused.
func (s *ProjectService) RemoveMember(projectID, actorID, memberID uint64) error {
	project, err := s.requireAdmin(projectID, actorID)
	if err != nil {
		return err
	}

	if memberID == project.OwnerID {
		return ErrCannotModifyOwner
	}
	if memberID == actorID {
		return ErrCannotRemoveSelf
	}

	member, err := s.projectRepo.FindMember(projectID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(member); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.Info().Uint64("project_id", projectID).Uint64("member_id", memberID).Msg("member removed")
	return nil
}

// CreateRoleInput holds the fields for a project role.
type CreateRoleInput struct {
	RoleName string
	Rate     *int
}

// CreateRole adds a project-scoped role. Admin access is required.
func (s *ProjectService) CreateRole(projectID, actorID uint64, input CreateRoleInput) (*models.ProjectRole, error) {
	if _, err := s.requireAdmin(projectID, actorID); err != nil {
		return nil, err
	}

	role := &models.ProjectRole{
		ProjectID: projectID,
		RoleName:  input.RoleName,
		Rate:      input.Rate,
	}

	if err := s.projectRepo.CreateRole(role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}

// ListRoles returns the project's roles. Any member may list.
func (s *ProjectService) ListRoles(projectID, userID uint64) ([]models.ProjectRole, error) {
	if _, err := s.requireMember(projectID, userID); err != nil {
		return nil, err
	}

	roles, err := s.projectRepo.ListRoles(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// UpdateRoleInput holds optional role fields; nil means keep.
type UpdateRoleInput struct {
	RoleName *string
	Rate     *int
}

// UpdateRole changes a role's name or rate. Admin access is required.
func (s *ProjectService) UpdateRole(projectID, actorID, roleID uint64, input UpdateRoleInput) (*models.ProjectRole, error) {
	if _, err := s.requireAdmin(projectID, actorID); err != nil {
		return nil, err
	}

	role, err := s.findProjectRole(projectID, roleID)
	if err != nil {
		return nil, err
	}

	if input.RoleName != nil {
		role.RoleName = *input.RoleName
	}
	if input.Rate != nil {
		role.Rate = input.Rate
	}

	if err := s.projectRepo.UpdateRole(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role; member rows referencing it lose the
// reference. Admin access is required.
func (s *ProjectService) DeleteRole(projectID, actorID, roleID uint64) error {
	if _, err := s.requireAdmin(projectID, actorID); err != nil {
		return err
	}

	role, err := s.findProjectRole(projectID, roleID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.DeleteRole(role); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return nil
}

func (s *ProjectService) requireMember(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	ok, err := s.access.HasAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	return project, nil
}

func (s *ProjectService) requireAdmin(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	ok, err := s.access.HasAdminAccess(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectAdmin
	}

	return project, nil
}

func (s *ProjectService) findProjectRole(projectID, roleID uint64) (*models.ProjectRole, error) {
	role, err := s.projectRepo.FindRole(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	if role.ProjectID != projectID {
		return nil, ErrRoleProjectMismatch
	}

	return role, nil
}
