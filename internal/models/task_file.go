package models

type TaskFile struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	FileID uint64 `gorm:"not null;uniqueIndex:uniq_task_file" json:"file_id"`
	TaskID uint64 `gorm:"not null;uniqueIndex:uniq_task_file" json:"task_id"`

	// Relations
	File StoreFile `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Task Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
