package models

import (
	"time"

	"github.com/google/uuid"
)

type CustomerList struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCustomerListInput struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

type UpdateCustomerListInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
}
