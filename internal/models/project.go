package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	LogoID      *uint64   `json:"logo_id,omitempty"`

	// Relations
	Owner      User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Logo       *StoreFile      `gorm:"foreignKey:LogoID" json:"logo,omitempty"`
	Members    []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	TaskGroups []TaskGroup     `gorm:"foreignKey:ProjectID" json:"task_groups,omitempty"`
	Roles      []ProjectRole   `gorm:"foreignKey:ProjectID" json:"roles,omitempty"`
}
