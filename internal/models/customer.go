package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Customer struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	Status         string    `json:"status"`
	CustomerListID uuid.UUID `json:"customerListId"`
	UserID         uuid.UUID `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateCustomerInput struct {
	Name           string    `json:"name" validate:"required,min=2"`
	Email          string    `json:"email" validate:"required,email"`
	PhoneNumber    string    `json:"phoneNumber"`
	Status         string    `json:"status" validate:"omitempty,oneof=active inactive"`
	CustomerListID uuid.UUID `json:"customerListId"`
}

type UpdateCustomerInput struct {
	Name           *string    `json:"name" validate:"omitempty,min=2"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	PhoneNumber    *string    `json:"phoneNumber"`
	Status         *string    `json:"status" validate:"omitempty,oneof=active inactive"`
	CustomerListID *uuid.UUID `json:"customerListId"`
}

// CustomerRecord is one accepted row of an import file
type CustomerRecord struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Status      string `json:"status" validate:"oneof=active inactive"`
}

// RowError reports why one data row of an import file was rejected.
// Row is 1-based and excludes the header.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	ImportedCount int        `json:"importedCount"`
	Errors        []RowError `json:"errors,omitempty"`
}
