package models

import "time"

// StoreFile records an uploaded file: SourceName is the name the client
// sent, TagName the unique name the bytes live under on disk.
type StoreFile struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	SourceName string    `gorm:"type:varchar(150);not null" json:"source_name"`
	TagName    string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"tag_name"`
	AuthorID   *uint64   `json:"author_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
