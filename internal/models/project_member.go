package models

import "time"

type AccessLevel string

const (
	AccessCommon AccessLevel = "Common"
	AccessAdmin  AccessLevel = "Admin"
)

// ProjectMember joins a user to a project with an access level and an
// optional project-defined role. The project owner never needs a member
// row to hold power, but one is written at project creation so member
// listings include the owner.
type ProjectMember struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	ProjectID   uint64      `gorm:"not null;uniqueIndex:uniq_project_member;index" json:"project_id"`
	MemberID    uint64      `gorm:"not null;uniqueIndex:uniq_project_member;index" json:"member_id"`
	AccessLevel AccessLevel `gorm:"type:varchar(10);not null;default:'Common'" json:"access_level"`
	RoleID      *uint64     `json:"role_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// Relations
	Project Project      `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Member  User         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Role    *ProjectRole `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
