package dto

import (
	"time"

	"github.com/workbenchflow/workbench-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ConfirmOtpRequest is the payload for confirming a registration code
type ConfirmOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResendOtpRequest is the payload for requesting a fresh code
type ResendOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UpdateUserRequest is the payload for profile edits; absent fields are
// left untouched
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
}

// ToUserDTO converts a User model to UserDTO. Email is included only
// for the user's own profile.
func ToUserDTO(user models.User, includeEmail bool) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
	if includeEmail {
		dto.Email = user.Email
	}
	return dto
}

// ToUserDTOs converts a slice of users to public UserDTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user, false)
	}
	return dtos
}
