package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCampaignStatus is applied when a campaign is created without a status
const DefaultCampaignStatus = StatusInactive

type Campaign struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CampaignDetail is a campaign together with the lists it targets
type CampaignDetail struct {
	*Campaign
	CustomerLists []*CustomerList `json:"customerLists"`
}

type CreateCampaignInput struct {
	Name            string      `json:"name" validate:"required,min=2"`
	Description     string      `json:"description"`
	Status          string      `json:"status" validate:"omitempty,oneof=active inactive"`
	CustomerListIDs []uuid.UUID `json:"customerListIds"`
}

// UpdateCampaignInput changes a campaign. A nil CustomerListIDs leaves the
// targeting untouched; a non-nil slice replaces it and must not be empty.
type UpdateCampaignInput struct {
	Name            *string     `json:"name" validate:"omitempty,min=2"`
	Description     *string     `json:"description"`
	Status          *string     `json:"status" validate:"omitempty,oneof=active inactive"`
	CustomerListIDs []uuid.UUID `json:"customerListIds"`
}
