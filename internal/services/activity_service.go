package services

import (
	"context"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/google/uuid"
)

// RecentActivityLimit is how many entries the dashboard shows
const RecentActivityLimit = 5

type ActivityService struct {
	store *repositories.Store
}

func NewActivityService(store *repositories.Store) *ActivityService {
	return &ActivityService{
		store: store,
	}
}

// GetRecentActivities returns the owner's latest timeline entries
func (s *ActivityService) GetRecentActivities(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Activity, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.store.Activities.GetRecent(ctx, ownerID, limit)
}

// recordActivity appends a timeline entry through tx so it commits together
// with the mutation it describes
func recordActivity(ctx context.Context, tx *repositories.Store, ownerID uuid.UUID, title, description string) error {
	return tx.Activities.Create(ctx, &models.Activity{
		Title:       title,
		Description: description,
		UserID:      ownerID,
	})
}

// requireOwner rejects calls made without a resolved principal
func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	return nil
}
