package repositories

import (
	"context"
	"strings"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/google/uuid"
)

// AssociationRepository reads and writes the two junction tables,
// campaign_customer_lists (explicit targeting) and campaign_customers
// (derived membership). It only inserts and deletes pairs; deciding which
// pairs should exist is the propagation engine's job.
type AssociationRepository struct {
	db database.Querier
}

func NewAssociationRepository(db database.Querier) *AssociationRepository {
	return &AssociationRepository{
		db: db,
	}
}

// AddTargetLists inserts (campaign, list) pairs, ignoring ones already present
func (r *AssociationRepository) AddTargetLists(ctx context.Context, campaignID uuid.UUID, listIDs []uuid.UUID) error {
	stmt, err := r.db.PrepareContext(ctx,
		`INSERT OR IGNORE INTO campaign_customer_lists (campaign_id, customer_list_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, listID := range listIDs {
		if _, err := stmt.ExecContext(ctx, campaignID.String(), listID.String()); err != nil {
			return err
		}
	}
	return nil
}

// ClearTargetLists removes every targeting row of a campaign
func (r *AssociationRepository) ClearTargetLists(ctx context.Context, campaignID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM campaign_customer_lists WHERE campaign_id = ?`, campaignID.String())
	return err
}

// TargetLists returns the lists a campaign targets, restricted to ownerID
func (r *AssociationRepository) TargetLists(ctx context.Context, campaignID, ownerID uuid.UUID) ([]*models.CustomerList, error) {
	query := `
		SELECT l.id, l.name, l.description, l.user_id, l.created_at, l.updated_at
		FROM customer_lists l
		JOIN campaign_customer_lists ccl ON ccl.customer_list_id = l.id
		WHERE ccl.campaign_id = ? AND l.user_id = ?
		ORDER BY l.name
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID.String(), ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomerLists(rows)
}

// CampaignsTargetingList returns the ids of campaigns that target listID
func (r *AssociationRepository) CampaignsTargetingList(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT campaign_id FROM campaign_customer_lists WHERE customer_list_id = ? ORDER BY campaign_id`,
		listID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LinkCustomersOfTargetLists inserts one campaign_customers row for every
// customer of ownerID that sits in any list the campaign targets. A customer
// reachable through several lists is linked once.
func (r *AssociationRepository) LinkCustomersOfTargetLists(ctx context.Context, campaignID, ownerID uuid.UUID) (int64, error) {
	query := `
		INSERT OR IGNORE INTO campaign_customers (campaign_id, customer_id)
		SELECT ccl.campaign_id, c.id
		FROM campaign_customer_lists ccl
		JOIN customers c ON c.customer_list_id = ccl.customer_list_id
		WHERE ccl.campaign_id = ? AND c.user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, campaignID.String(), ownerID.String())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// LinkCustomers inserts (campaign, customer) pairs, skipping existing ones
func (r *AssociationRepository) LinkCustomers(ctx context.Context, campaignID uuid.UUID, customerIDs []uuid.UUID) (int64, error) {
	stmt, err := r.db.PrepareContext(ctx,
		`INSERT OR IGNORE INTO campaign_customers (campaign_id, customer_id) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var linked int64
	for _, customerID := range customerIDs {
		result, err := stmt.ExecContext(ctx, campaignID.String(), customerID.String())
		if err != nil {
			return linked, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return linked, err
		}
		linked += n
	}
	return linked, nil
}

// ClearCustomers removes every derived membership row of a campaign
func (r *AssociationRepository) ClearCustomers(ctx context.Context, campaignID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM campaign_customers WHERE campaign_id = ?`, campaignID.String())
	return err
}

// UnlinkCustomer removes a customer from every campaign
func (r *AssociationRepository) UnlinkCustomer(ctx context.Context, customerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM campaign_customers WHERE customer_id = ?`, customerID.String())
	return err
}

// CampaignCustomers returns the customers linked to a campaign, restricted to ownerID
func (r *AssociationRepository) CampaignCustomers(ctx context.Context, campaignID, ownerID uuid.UUID) ([]*models.Customer, error) {
	query := `
		SELECT ` + prefixed("c", customerColumns) + `
		FROM customers c
		JOIN campaign_customers cc ON cc.customer_id = c.id
		WHERE cc.campaign_id = ? AND c.user_id = ?
		ORDER BY c.created_at DESC, c.rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID.String(), ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// prefixed qualifies each column in a comma separated list with alias
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
