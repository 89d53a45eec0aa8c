package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/database"
	"github.com/workbenchflow/workbench-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project. No member row is written for the owner;
// every permission check short-circuits on OwnerID.
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a non-deleted project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Scopes(database.NotDeleted).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns non-deleted projects
func (r *GormProjectRepository) List(offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Scopes(database.NotDeleted).Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListForUser returns non-deleted projects the user owns or belongs to
func (r *GormProjectRepository) ListForUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Scopes(database.NotDeleted).
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.owner_id = ? OR project_members.member_id = ?", userID, userID).
		Distinct("projects.*").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists changes to a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// SoftDelete marks a project as deleted
func (r *GormProjectRepository) SoftDelete(project *models.Project) error {
	project.IsDeleted = true
	return r.db.Save(project).Error
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a membership by project and user
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND member_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists a project's members with users and roles preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Preload("Member").Preload("Role").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMember persists changes to a membership
func (r *GormProjectRepository) UpdateMember(member *models.ProjectMember) error {
	return r.db.Save(member).Error
}

// RemoveMember removes a membership
func (r *GormProjectRepository) RemoveMember(member *models.ProjectMember) error {
	return r.db.Delete(member).Error
}

// CreateRole creates a project role
func (r *GormProjectRepository) CreateRole(role *models.ProjectRole) error {
	return r.db.Create(role).Error
}

// FindRole finds a project role by ID
func (r *GormProjectRepository) FindRole(roleID uint64) (*models.ProjectRole, error) {
	var role models.ProjectRole
	if err := r.db.First(&role, roleID).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles lists a project's roles
func (r *GormProjectRepository) ListRoles(projectID uint64) ([]models.ProjectRole, error) {
	var roles []models.ProjectRole
	if err := r.db.Where("project_id = ?", projectID).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateRole persists changes to a role
func (r *GormProjectRepository) UpdateRole(role *models.ProjectRole) error {
	return r.db.Save(role).Error
}

// DeleteRole removes a role. Member rows referencing it keep working
// because the reference is nullable.
func (r *GormProjectRepository) DeleteRole(role *models.ProjectRole) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.ProjectMember{}).
			Where("role_id = ?", role.ID).
			Update("role_id", nil).Error
		if err != nil {
			return fmt.Errorf("clear member role references: %w", err)
		}

		if err := tx.Delete(role).Error; err != nil {
			return fmt.Errorf("delete role: %w", err)
		}

		return nil
	})
}
