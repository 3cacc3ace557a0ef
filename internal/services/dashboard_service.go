package services

import (
	"context"
	"fmt"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/google/uuid"
)

type DashboardService struct {
	store *repositories.Store
}

func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{
		store: store,
	}
}

// GetStats counts the owner's lists, customers and active campaigns
func (s *DashboardService) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	lists, err := s.store.CustomerLists.CountByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count customer lists: %w", err)
	}

	customers, err := s.store.Customers.CountByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	active, err := s.store.Campaigns.CountByStatus(ctx, ownerID, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active campaigns: %w", err)
	}

	activities, err := s.store.Activities.GetRecent(ctx, ownerID, RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}

	return &models.DashboardStats{
		CustomerLists:    lists,
		Customers:        customers,
		ActiveCampaigns:  active,
		RecentActivities: activities,
	}, nil
}
