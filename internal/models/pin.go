package models

type Pin struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	UserID uint64 `gorm:"not null;uniqueIndex:uniq_user_task_pin" json:"user_id"`
	TaskID uint64 `gorm:"not null;uniqueIndex:uniq_user_task_pin" json:"task_id"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
