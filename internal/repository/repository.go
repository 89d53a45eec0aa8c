package repository

import (
	"github.com/workbenchflow/workbench-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithOtp creates a user together with their first OTP and
	// links them within a single transaction.
	CreateWithOtp(user *models.User, otp *models.Otp) error

	// HardDeleteWithOtp removes a user and their OTP row. Used to roll
	// back a registration whose confirmation mail could not be sent.
	HardDeleteWithOtp(user *models.User) error

	// FindByID finds a non-deleted user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a non-deleted user by username
	FindByUsername(username string) (*models.User, error)

	// FindByUsernameAny finds a user by username including soft-deleted
	// rows, so callers can tell a vanished account from a deactivated one
	FindByUsernameAny(username string) (*models.User, error)

	// FindByEmail finds a non-deleted user by email
	FindByEmail(email string) (*models.User, error)

	// List returns non-deleted users with offset/limit pagination
	List(offset, limit int) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// SoftDelete marks a user as deleted without removing the row
	SoftDelete(user *models.User) error
}

// OtpRepository defines the interface for OTP data access
type OtpRepository interface {
	// FindByID finds an OTP by ID
	FindByID(id uint64) (*models.Otp, error)

	// Replace deletes the user's live OTP (if any), inserts the fresh
	// one, and points the user at it, all in one transaction.
	Replace(user *models.User, otp *models.Otp) error

	// Update persists changes to an OTP (attempt decrements)
	Update(otp *models.Otp) error

	// Consume deletes the OTP and clears the user's OtpID in one
	// transaction. This is the sole transition that confirms a user.
	Consume(user *models.User, otp *models.Otp) error
}

// ProjectRepository defines the interface for project, membership and
// role data access
type ProjectRepository interface {
	// Create creates a project. The owner is not written as a member
	// row; ownership is a derived capability.
	Create(project *models.Project) error

	// FindByID finds a non-deleted project by ID
	FindByID(id uint64) (*models.Project, error)

	// List returns non-deleted projects with offset/limit pagination
	List(offset, limit int) ([]models.Project, error)

	// ListForUser returns non-deleted projects the user owns or is a
	// member of
	ListForUser(userID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// SoftDelete marks a project as deleted without removing the row
	SoftDelete(project *models.Project) error

	AddMember(member *models.ProjectMember) error
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
	UpdateMember(member *models.ProjectMember) error
	RemoveMember(member *models.ProjectMember) error

	CreateRole(role *models.ProjectRole) error
	FindRole(roleID uint64) (*models.ProjectRole, error)
	ListRoles(projectID uint64) ([]models.ProjectRole, error)
	UpdateRole(role *models.ProjectRole) error
	DeleteRole(role *models.ProjectRole) error
}

// TaskRepository defines the interface for task, group and state data
// access
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64, preload ...string) (*models.Task, error)
	List(offset, limit int) ([]models.Task, error)

	// ListForUser returns tasks authored by or targeted at the user,
	// optionally filtered by closed state
	ListForUser(userID uint64, closed *bool) ([]models.Task, error)

	// ListByProject returns tasks reached through the project's groups
	ListByProject(projectID uint64, closed *bool) ([]models.Task, error)

	Update(task *models.Task) error
	Delete(task *models.Task) error

	CreateGroup(group *models.TaskGroup) error
	FindGroup(groupID uint64) (*models.TaskGroup, error)
	ListGroups(projectID uint64) ([]models.TaskGroup, error)
	UpdateGroup(group *models.TaskGroup) error

	// DeleteGroup removes a group and its tasks in one transaction
	DeleteGroup(group *models.TaskGroup) error

	FindState(stateID uint64) (*models.TaskState, error)
	ListStates() ([]models.TaskState, error)
	CreateState(state *models.TaskState) error

	// FirstState returns the lowest-ID task state, or
	// gorm.ErrRecordNotFound when none exist
	FirstState() (*models.TaskState, error)
}

// MarkRepository defines the interface for mark data access
type MarkRepository interface {
	Create(mark *models.Mark) error
	FindByID(id uint64) (*models.Mark, error)
	ListByTask(taskID uint64) ([]models.Mark, error)
	Update(mark *models.Mark) error
	Delete(mark *models.Mark) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint64) (*models.Comment, error)
	ListByTask(taskID uint64) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(comment *models.Comment) error
}

// PinRepository defines the interface for pin data access
type PinRepository interface {
	Create(pin *models.Pin) error
	Find(userID, taskID uint64) (*models.Pin, error)
	ListByUser(userID uint64) ([]models.Pin, error)
	Delete(pin *models.Pin) error
}

// FileRepository defines the interface for stored file and task
// attachment data access
type FileRepository interface {
	CreateStoreFile(file *models.StoreFile) error
	FindStoreFile(id uint64) (*models.StoreFile, error)
	FindStoreFileByTagName(tagName string) (*models.StoreFile, error)

	Attach(taskFile *models.TaskFile) error
	FindAttachment(taskID, fileID uint64) (*models.TaskFile, error)
	ListAttachments(taskID uint64) ([]models.TaskFile, error)
	Detach(taskFile *models.TaskFile) error
}
