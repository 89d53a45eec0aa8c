package models

import "time"

// ProjectRole is a project-scoped label with an optional numeric rate,
// assignable to members. Distinct from AccessLevel.
type ProjectRole struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	RoleName  string    `gorm:"type:varchar(96);not null" json:"role_name"`
	Rate      *int      `json:"rate,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
