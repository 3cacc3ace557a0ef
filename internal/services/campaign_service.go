package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/validation"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/google/uuid"
)

type CampaignService struct {
	store  *repositories.Store
	engine *propagation.Engine
}

func NewCampaignService(store *repositories.Store, engine *propagation.Engine) *CampaignService {
	return &CampaignService{
		store:  store,
		engine: engine,
	}
}

// CreateCampaign creates a campaign targeting listIDs and links the union of
// their customers. Nothing is written unless every list belongs to ownerID.
func (s *CampaignService) CreateCampaign(ctx context.Context, ownerID uuid.UUID, input *models.CreateCampaignInput) (*models.CampaignDetail, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))

	err := validation.Struct(input)
	if len(input.CustomerListIDs) == 0 {
		err = mergeNoTargets(err)
	}
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		UserID:      ownerID,
	}

	var detail *models.CampaignDetail
	var linked int64
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Campaigns.Create(ctx, campaign); err != nil {
			return err
		}
		var err error
		if linked, err = s.engine.Target(ctx, tx, campaign, input.CustomerListIDs); err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, campaign)
		if err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Launched new campaign",
			fmt.Sprintf("%s targeting %d customer list(s)", quote(campaign.Name), len(detail.CustomerLists)))
	})
	if err != nil {
		return nil, err
	}

	logger.WithField("campaign_id", campaign.ID).Infof("Campaign created with %d customers", linked)
	return detail, nil
}

// GetCampaigns returns the owner's campaigns, newest first
func (s *CampaignService) GetCampaigns(ctx context.Context, ownerID uuid.UUID) ([]*models.Campaign, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.Campaigns.GetByOwnerID(ctx, ownerID)
}

// GetCampaign returns a campaign with the lists it targets
func (s *CampaignService) GetCampaign(ctx context.Context, ownerID, id uuid.UUID) (*models.CampaignDetail, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	campaign, err := s.store.Campaigns.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return loadDetail(ctx, s.store, campaign)
}

// GetCampaignCustomers returns the derived membership of a campaign
func (s *CampaignService) GetCampaignCustomers(ctx context.Context, ownerID, id uuid.UUID) ([]*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if _, err := s.store.Campaigns.GetByID(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.store.Associations.CampaignCustomers(ctx, id, ownerID)
}

// UpdateCampaign changes the scalar fields and, when CustomerListIDs is
// non-nil, replaces the targeting and recomputes membership from scratch.
func (s *CampaignService) UpdateCampaign(ctx context.Context, ownerID, id uuid.UUID, input *models.UpdateCampaignInput) (*models.CampaignDetail, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	trimInPlace(input.Name)
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		input.Status = &status
	}

	err := validation.Struct(input)
	if input.CustomerListIDs != nil && len(input.CustomerListIDs) == 0 {
		err = mergeNoTargets(err)
	}
	if err != nil {
		return nil, err
	}

	var detail *models.CampaignDetail
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		campaign, err := tx.Campaigns.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			campaign.Name = *input.Name
		}
		if input.Description != nil {
			campaign.Description = strings.TrimSpace(*input.Description)
		}
		if input.Status != nil {
			campaign.Status = *input.Status
		}

		if input.CustomerListIDs != nil {
			if _, err := s.engine.Retarget(ctx, tx, campaign, input.CustomerListIDs); err != nil {
				return err
			}
		}
		if err := tx.Campaigns.Update(ctx, campaign); err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, campaign)
		if err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Updated campaign", quote(campaign.Name))
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteCampaign removes a campaign and its association rows
func (s *CampaignService) DeleteCampaign(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		campaign, err := tx.Campaigns.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if err := tx.Campaigns.Delete(ctx, id, ownerID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Deleted campaign", quote(campaign.Name))
	})
}

func loadDetail(ctx context.Context, store *repositories.Store, campaign *models.Campaign) (*models.CampaignDetail, error) {
	lists, err := store.Associations.TargetLists(ctx, campaign.ID, campaign.UserID)
	if err != nil {
		return nil, fmt.Errorf("load target lists: %w", err)
	}
	return &models.CampaignDetail{Campaign: campaign, CustomerLists: lists}, nil
}

func mergeNoTargets(err error) error {
	return validation.Merge(err, propagation.NoTargets)
}
