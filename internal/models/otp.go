package models

import "time"

// Otp is a one-time confirmation code owned by at most one user via
// User.OtpID. The row is deleted on successful verification or when a
// fresh code supersedes it; expiry alone never deletes it.
type Otp struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Attempts  int       `gorm:"not null;default:5" json:"attempts"`
}
