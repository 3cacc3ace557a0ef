package repositories

import (
	"context"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/google/uuid"
)

// ActivityRepository is append-only: there is no update or delete
type ActivityRepository struct {
	db database.Querier
}

func NewActivityRepository(db database.Querier) *ActivityRepository {
	return &ActivityRepository{
		db: db,
	}
}

// Create appends an activity
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, title, description, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	activity.ID = uuid.New()
	activity.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, query,
		activity.ID.String(),
		activity.Title,
		activity.Description,
		activity.UserID.String(),
		activity.CreatedAt,
	)
	return err
}

// GetRecent returns up to limit activities of an owner, newest first
func (r *ActivityRepository) GetRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, title, description, user_id, created_at
		FROM activities
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		activity := &models.Activity{}
		if err := rows.Scan(
			&activity.ID,
			&activity.Title,
			&activity.Description,
			&activity.UserID,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
