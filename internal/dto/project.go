package dto

import (
	"time"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	LogoID      *uint64   `json:"logo_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *UserDTO  `json:"owner,omitempty"`
}

// ProjectMemberDTO represents a membership in API responses
type ProjectMemberDTO struct {
	ID          uint64             `json:"id"`
	ProjectID   uint64             `json:"project_id"`
	MemberID    uint64             `json:"member_id"`
	AccessLevel models.AccessLevel `json:"access_level"`
	RoleID      *uint64            `json:"role_id,omitempty"`
	Member      *UserDTO           `json:"member,omitempty"`
	Role        *ProjectRoleDTO    `json:"role,omitempty"`
}

// ProjectRoleDTO represents a project role in API responses
type ProjectRoleDTO struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	RoleName  string `json:"role_name"`
	Rate      *int   `json:"rate,omitempty"`
}

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=50"`
	Description string  `json:"description" binding:"max=512"`
	LogoID      *uint64 `json:"logo_id,omitempty"`
}

// UpdateProjectRequest is the payload for project edits; absent fields
// are left untouched
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=512"`
	LogoID      *uint64 `json:"logo_id,omitempty"`
}

// AddMemberRequest is the payload for adding a project member
type AddMemberRequest struct {
	MemberID    uint64             `json:"member_id" binding:"required"`
	AccessLevel models.AccessLevel `json:"access_level" binding:"omitempty,oneof=Common Admin"`
}

// UpdateMemberRequest is the payload for membership edits; absent
// fields are left untouched. ClearRole removes the role assignment.
type UpdateMemberRequest struct {
	AccessLevel *models.AccessLevel `json:"access_level,omitempty" binding:"omitempty,oneof=Common Admin"`
	RoleID      *uint64             `json:"role_id,omitempty"`
	ClearRole   bool                `json:"clear_role,omitempty"`
}

// CreateRoleRequest is the payload for creating a project role
type CreateRoleRequest struct {
	RoleName string `json:"role_name" binding:"required,min=1,max=96"`
	Rate     *int   `json:"rate,omitempty" binding:"omitempty,min=0"`
}

// UpdateRoleRequest is the payload for role edits; absent fields are
// left untouched
type UpdateRoleRequest struct {
	RoleName *string `json:"role_name,omitempty" binding:"omitempty,min=1,max=96"`
	Rate     *int    `json:"rate,omitempty" binding:"omitempty,min=0"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		LogoID:      project.LogoID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner, false)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectDTOs converts a slice of projects to ProjectDTOs
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}

// ToProjectMemberDTO converts a ProjectMember model to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	dto := ProjectMemberDTO{
		ID:          member.ID,
		ProjectID:   member.ProjectID,
		MemberID:    member.MemberID,
		AccessLevel: member.AccessLevel,
		RoleID:      member.RoleID,
	}

	if member.Member.ID != 0 {
		user := ToUserDTO(member.Member, false)
		dto.Member = &user
	}

	if member.Role != nil {
		role := ToProjectRoleDTO(*member.Role)
		dto.Role = &role
	}

	return dto
}

// ToProjectMemberDTOs converts a slice of members to ProjectMemberDTOs
func ToProjectMemberDTOs(members []models.ProjectMember) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToProjectMemberDTO(member)
	}
	return dtos
}

// ToProjectRoleDTO converts a ProjectRole model to ProjectRoleDTO
func ToProjectRoleDTO(role models.ProjectRole) ProjectRoleDTO {
	return ProjectRoleDTO{
		ID:        role.ID,
		ProjectID: role.ProjectID,
		RoleName:  role.RoleName,
		Rate:      role.Rate,
	}
}

// ToProjectRoleDTOs converts a slice of roles to ProjectRoleDTOs
func ToProjectRoleDTOs(roles []models.ProjectRole) []ProjectRoleDTO {
	dtos := make([]ProjectRoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = ToProjectRoleDTO(role)
	}
	return dtos
}
