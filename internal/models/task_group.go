package models

import "time"

type TaskGroup struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Tasks   []Task  `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
