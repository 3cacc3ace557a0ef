package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is an append-only timeline entry
type Activity struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DashboardStats struct {
	CustomerLists    int         `json:"customerLists"`
	Customers        int         `json:"customers"`
	ActiveCampaigns  int         `json:"activeCampaigns"`
	RecentActivities []*Activity `json:"recentActivities"`
}
