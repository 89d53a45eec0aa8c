package models

import "time"

// Task belongs to at most one group. Its governing project is derived
// through the group; a task without a group has no project and is only
// reachable through the direct task endpoints.
type Task struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Title     string     `gorm:"type:varchar(75);not null" json:"title"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	AuthorID  *uint64    `gorm:"index" json:"author_id,omitempty"`
	TargetID  *uint64    `gorm:"index" json:"target_id,omitempty"`
	StateID   *uint64    `json:"state_id,omitempty"`
	GroupID   *uint64    `gorm:"index" json:"group_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsClosed  bool       `gorm:"not null;default:false;index" json:"is_closed"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Tags      string     `gorm:"type:text" json:"tags"`

	// Relations
	Author   *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Target   *User      `gorm:"foreignKey:TargetID" json:"target,omitempty"`
	State    *TaskState `gorm:"foreignKey:StateID" json:"state,omitempty"`
	Group    *TaskGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Comments []Comment  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Marks    []Mark     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"marks,omitempty"`
	Pins     []Pin      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"pins,omitempty"`
	Files    []TaskFile `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}
