package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/google/uuid"
)

type CampaignRepository struct {
	db database.Querier
}

func NewCampaignRepository(db database.Querier) *CampaignRepository {
	return &CampaignRepository{
		db: db,
	}
}

const campaignColumns = `id, name, description, status, user_id, created_at, updated_at`

// Create creates a new campaign row. Targeting is written separately.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, description, status, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	campaign.ID = uuid.New()
	campaign.CreatedAt = now()
	campaign.UpdatedAt = campaign.CreatedAt
	if campaign.Status == "" {
		campaign.Status = models.DefaultCampaignStatus
	}

	_, err := r.db.ExecContext(ctx, query,
		campaign.ID.String(),
		campaign.Name,
		campaign.Description,
		campaign.Status,
		campaign.UserID.String(),
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	return err
}

// GetByID retrieves a campaign owned by ownerID
func (r *CampaignRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ? AND user_id = ?`

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, id.String(), ownerID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.ResourceCampaign, id)
	}
	return campaign, err
}

// GetByOwnerID retrieves all campaigns of an owner, newest first
func (r *CampaignRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

// CountByStatus counts an owner's campaigns with the given status
func (r *CampaignRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns WHERE user_id = ? AND status = ?`,
		ownerID.String(), status).Scan(&count)
	return count, err
}

// Update writes the scalar fields of a campaign owned by campaign.UserID
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	campaign.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, query,
		campaign.Name,
		campaign.Description,
		campaign.Status,
		campaign.UpdatedAt,
		campaign.ID.String(),
		campaign.UserID.String(),
	)
	if err != nil {
		return err
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCampaign, campaign.ID))
}

// Delete removes a campaign and its association rows
func (r *CampaignRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ? AND user_id = ?`,
		id.String(), ownerID.String())
	if err != nil {
		return err
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCampaign, id))
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Description,
		&campaign.Status,
		&campaign.UserID,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}
