package models

import "time"

// Mark is a rating/review of a task. Rate is 0..10 or absent.
type Mark struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      uint64    `gorm:"not null;index" json:"task_id"`
	AuthorID    uint64    `gorm:"not null;index" json:"author_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Rate        *int      `gorm:"check:rate >= 0 AND rate <= 10" json:"rate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Task   Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
