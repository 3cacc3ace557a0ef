package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput is the payload for creating an account
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for authenticating
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileInput changes the caller's own account. CurrentPassword is
// always required; NewPassword must be confirmed.
type UpdateProfileInput struct {
	Name            *string `json:"name" validate:"omitempty,min=2"`
	Email           *string `json:"email" validate:"omitempty,email"`
	CurrentPassword string  `json:"currentPassword" validate:"required,min=6"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=6"`
	ConfirmPassword *string `json:"confirmPassword" validate:"omitempty,min=6"`
}
