package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(75);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(125);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsDeleted    bool      `gorm:"not null;default:false" json:"is_deleted"`

	// Non-nil OtpID means the account has not confirmed its email yet
	// and must not be allowed to authenticate.
	OtpID *uint64 `json:"otp_id,omitempty"`

	// Relations
	Otp                *Otp            `gorm:"foreignKey:OtpID" json:"-"`
	OwnedProjects      []Project       `gorm:"foreignKey:OwnerID" json:"-"`
	ProjectMemberships []ProjectMember `gorm:"foreignKey:MemberID" json:"-"`
	AuthoredTasks      []Task          `gorm:"foreignKey:AuthorID" json:"-"`
	TargetedTasks      []Task          `gorm:"foreignKey:TargetID" json:"-"`
	Comments           []Comment       `gorm:"foreignKey:AuthorID" json:"-"`
	Pins               []Pin           `gorm:"foreignKey:UserID" json:"-"`
	Marks              []Mark          `gorm:"foreignKey:AuthorID" json:"-"`
	StoreFiles         []StoreFile     `gorm:"foreignKey:AuthorID" json:"-"`
}
