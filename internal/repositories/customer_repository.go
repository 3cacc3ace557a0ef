package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/google/uuid"
)

type CustomerRepository struct {
	db database.Querier
}

func NewCustomerRepository(db database.Querier) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

const customerColumns = `id, name, email, phone_number, status, customer_list_id, user_id, created_at, updated_at`

const insertCustomer = `
	INSERT INTO customers (id, name, email, phone_number, status, customer_list_id, user_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	prepareCustomer(customer)

	_, err := r.db.ExecContext(ctx, insertCustomer, customerArgs(customer)...)
	return translate(err, models.ResourceCustomer, "Customer list does not exist")
}

// CreateBatch inserts every customer with one prepared statement. Callers run
// it inside a transaction so the batch lands as a whole.
func (r *CustomerRepository) CreateBatch(ctx context.Context, customers []*models.Customer) error {
	stmt, err := r.db.PrepareContext(ctx, insertCustomer)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, customer := range customers {
		prepareCustomer(customer)
		if _, err := stmt.ExecContext(ctx, customerArgs(customer)...); err != nil {
			return fmt.Errorf("insert customer %d: %w", i+1, translate(err, models.ResourceCustomer, "Customer list does not exist"))
		}
	}
	return nil
}

// GetByID retrieves a customer owned by ownerID
func (r *CustomerRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ? AND user_id = ?`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id.String(), ownerID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFound(models.ResourceCustomer, id)
	}
	return customer, err
}

// GetByOwnerID retrieves all customers of an owner, newest first
func (r *CustomerRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// GetByListID retrieves the customers of a list owned by ownerID
func (r *CustomerRepository) GetByListID(ctx context.Context, listID, ownerID uuid.UUID) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE customer_list_id = ? AND user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, listID.String(), ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// CountByOwnerID counts an owner's customers
func (r *CustomerRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE user_id = ?`, ownerID.String()).Scan(&count)
	return count, err
}

// Update writes every mutable column of a customer owned by customer.UserID
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = ?, email = ?, phone_number = ?, status = ?, customer_list_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	customer.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Email,
		customer.PhoneNumber,
		customer.Status,
		customer.CustomerListID.String(),
		customer.UpdatedAt,
		customer.ID.String(),
		customer.UserID.String(),
	)
	if err != nil {
		return translate(err, models.ResourceCustomer, "Customer list does not exist")
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCustomer, customer.ID))
}

// Delete removes a customer and, through the foreign keys, its campaign links
func (r *CustomerRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ? AND user_id = ?`,
		id.String(), ownerID.String())
	if err != nil {
		return err
	}

	return expectAffected(result, models.NewNotFound(models.ResourceCustomer, id))
}

func prepareCustomer(customer *models.Customer) {
	customer.ID = uuid.New()
	customer.CreatedAt = now()
	customer.UpdatedAt = customer.CreatedAt
	if customer.Status == "" {
		customer.Status = models.StatusActive
	}
}

func customerArgs(customer *models.Customer) []any {
	return []any{
		customer.ID.String(),
		customer.Name,
		customer.Email,
		customer.PhoneNumber,
		customer.Status,
		customer.CustomerListID.String(),
		customer.UserID.String(),
		customer.CreatedAt,
		customer.UpdatedAt,
	}
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PhoneNumber,
		&customer.Status,
		&customer.CustomerListID,
		&customer.UserID,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func collectCustomers(rows *sql.Rows) ([]*models.Customer, error) {
	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
