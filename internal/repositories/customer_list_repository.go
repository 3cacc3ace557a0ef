package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/google/uuid"
)

type CustomerListRepository struct {
	db database.Querier
}

func NewCustomerListRepository(db database.Querier) *CustomerListRepository {
	return &CustomerListRepository{
		db: db,
	}
}

const customerListColumns = `id, name, description, user_id, created_at, updated_at`

const duplicateListName = "A customer list with this name already exists"

// Create creates a new customer list
func (r *CustomerListRepository) Create(ctx context.Context, list *models.CustomerList) error {
	query := `
		INSERT INTO customer_lists (id, name, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	list.ID = uuid.New()
	list.CreatedAt = now()
	list.UpdatedAt = list.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		list.ID.String(),
		list.Name,
		list.Description,
		list.UserID.String(),
		list.CreatedAt,
		list.UpdatedAt,
	)
	return translate(err, models.ResourceCustomerList, duplicateListName)
}

// GetByID retrieves a customer list owned by ownerID
func (r *CustomerListRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.CustomerList, error) {
	query := `SELECT ` + customerListColumns + ` FROM customer_lists WHERE id = ? AND user_id = ?`

	list, err := scanCustomerList(r.db.QueryRowContext(ctx, query, id.String(), ownerID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.ResourceCustomerList, id)
	}
	return list, err
}

// GetByOwnerID retrieves all customer lists for an owner, newest first
func (r *CustomerListRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.CustomerList, error) {
	query := `
		SELECT ` + customerListColumns + `
		FROM customer_lists
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomerLists(rows)
}

// CountByOwnerID counts an owner's customer lists
func (r *CustomerListRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_lists WHERE user_id = ?`, ownerID.String()).Scan(&count)
	return count, err
}

// Update updates name and description of a list owned by list.UserID
func (r *CustomerListRepository) Update(ctx context.Context, list *models.CustomerList) error {
	query := `
		UPDATE customer_lists
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	list.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, query,
		list.Name,
		list.Description,
		list.UpdatedAt,
		list.ID.String(),
		list.UserID.String(),
	)
	if err != nil {
		return translate(err, models.ResourceCustomerList, duplicateListName)
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCustomerList, list.ID))
}

// Delete removes a list; its customers and association rows go with it
func (r *CustomerListRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customer_lists WHERE id = ? AND user_id = ?`,
		id.String(), ownerID.String())
	if err != nil {
		return err
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCustomerList, id))
}

func scanCustomerList(row rowScanner) (*models.CustomerList, error) {
	list := &models.CustomerList{}
	err := row.Scan(
		&list.ID,
		&list.Name,
		&list.Description,
		&list.UserID,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func collectCustomerLists(rows *sql.Rows) ([]*models.CustomerList, error) {
	lists := []*models.CustomerList{}
	for rows.Next() {
		list, err := scanCustomerList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// expectAffected returns notFound when result touched no rows
func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
