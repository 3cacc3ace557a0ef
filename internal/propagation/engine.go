// Package propagation maintains the derived campaign → customer membership.
//
// For every campaign C the rows of campaign_customers must equal the union of
// the customers of every list C targets. The engine is the only writer of
// campaign_customers and of campaign_customer_lists; each method expects a
// transaction-bound store so its writes commit or roll back together with the
// mutation that triggered them.
package propagation

import (
	"context"
	"fmt"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/google/uuid"
)

// NoTargets is the field violation for a campaign that targets no list
var NoTargets = models.FieldError{Field: "customerListIds", Message: "At least one customer list must be selected"}

// NoTargetsError is returned when a campaign would end up targeting no list
func NoTargetsError() error {
	return models.NewFieldError(NoTargets.Field, NoTargets.Message)
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ResolveTargets deduplicates listIDs, keeping their order, and checks that
// every list is owned by ownerID. The first missing id is reported as NotFound.
func (e *Engine) ResolveTargets(ctx context.Context, tx *repositories.Store, ownerID uuid.UUID, listIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(listIDs) == 0 {
		return nil, NoTargetsError()
	}

	seen := make(map[uuid.UUID]bool, len(listIDs))
	unique := make([]uuid.UUID, 0, len(listIDs))
	for _, id := range listIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if _, err := tx.CustomerLists.GetByID(ctx, id, ownerID); err != nil {
			return nil, err
		}
		unique = append(unique, id)
	}
	return unique, nil
}

// Target writes the targeting of a freshly created campaign and links the
// union of its lists' customers. It returns the number of linked customers.
func (e *Engine) Target(ctx context.Context, tx *repositories.Store, campaign *models.Campaign, listIDs []uuid.UUID) (int64, error) {
	targets, err := e.ResolveTargets(ctx, tx, campaign.UserID, listIDs)
	if err != nil {
		return 0, err
	}

	if err := tx.Associations.AddTargetLists(ctx, campaign.ID, targets); err != nil {
		return 0, fmt.Errorf("link customer lists: %w", err)
	}

	linked, err := tx.Associations.LinkCustomersOfTargetLists(ctx, campaign.ID, campaign.UserID)
	if err != nil {
		return 0, fmt.Errorf("link customers: %w", err)
	}
	return linked, nil
}

// Retarget replaces the targeting of an existing campaign and recomputes its
// membership from the new lists only. Lists are resolved before anything is
// deleted, so a bad id leaves the prior rows in place even without rollback.
func (e *Engine) Retarget(ctx context.Context, tx *repositories.Store, campaign *models.Campaign, listIDs []uuid.UUID) (int64, error) {
	targets, err := e.ResolveTargets(ctx, tx, campaign.UserID, listIDs)
	if err != nil {
		return 0, err
	}

	if err := tx.Associations.ClearTargetLists(ctx, campaign.ID); err != nil {
		return 0, fmt.Errorf("clear customer lists: %w", err)
	}
	if err := tx.Associations.AddTargetLists(ctx, campaign.ID, targets); err != nil {
		return 0, fmt.Errorf("link customer lists: %w", err)
	}
	if err := tx.Associations.ClearCustomers(ctx, campaign.ID); err != nil {
		return 0, fmt.Errorf("clear customers: %w", err)
	}

	linked, err := tx.Associations.LinkCustomersOfTargetLists(ctx, campaign.ID, campaign.UserID)
	if err != nil {
		return 0, fmt.Errorf("link customers: %w", err)
	}
	return linked, nil
}

// ExtendOnImport links newly added customers of listID to every campaign that
// targets the list. Existing pairs are left alone.
func (e *Engine) ExtendOnImport(ctx context.Context, tx *repositories.Store, listID uuid.UUID, customerIDs []uuid.UUID) (int64, error) {
	if len(customerIDs) == 0 {
		return 0, nil
	}

	campaignIDs, err := tx.Associations.CampaignsTargetingList(ctx, listID)
	if err != nil {
		return 0, fmt.Errorf("find campaigns targeting list: %w", err)
	}

	var linked int64
	for _, campaignID := range campaignIDs {
		n, err := tx.Associations.LinkCustomers(ctx, campaignID, customerIDs)
		if err != nil {
			return linked, fmt.Errorf("link customers to campaign %s: %w", campaignID, err)
		}
		linked += n
	}
	return linked, nil
}

// Reassign moves a customer's campaign membership to follow its new list: the
// customer leaves every campaign and rejoins those that target newListID.
func (e *Engine) Reassign(ctx context.Context, tx *repositories.Store, customerID, newListID uuid.UUID) error {
	if err := tx.Associations.UnlinkCustomer(ctx, customerID); err != nil {
		return fmt.Errorf("unlink customer: %w", err)
	}
	if _, err := e.ExtendOnImport(ctx, tx, newListID, []uuid.UUID{customerID}); err != nil {
		return err
	}
	return nil
}
