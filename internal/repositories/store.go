package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/mattn/go-sqlite3"
)

// Store groups the repositories over one Querier. A Store built on *sql.DB
// runs every statement on its own; the Store handed to WithinTx runs every
// statement in the same transaction.
type Store struct {
	db *sql.DB

	Users         *UserRepository
	CustomerLists *CustomerListRepository
	Customers     *CustomerRepository
	Campaigns     *CampaignRepository
	Associations  *AssociationRepository
	Activities    *ActivityRepository
}

func NewStore(db *sql.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(q database.Querier) *Store {
	return &Store{
		Users:         NewUserRepository(q),
		CustomerLists: NewCustomerListRepository(q),
		Customers:     NewCustomerRepository(q),
		Campaigns:     NewCampaignRepository(q),
		Associations:  NewAssociationRepository(q),
		Activities:    NewActivityRepository(q),
	}
}

// WithinTx runs fn with a transaction-bound Store. Nothing fn writes is
// visible to others unless fn returns nil and the commit succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return errors.New("WithinTx called on a transaction-bound store")
	}
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(newStore(tx))
	})
}

// now is the timestamp source for every row written by the repositories
func now() time.Time {
	return time.Now().UTC()
}

// translate maps sqlite constraint failures to a Conflict and leaves
// everything else alone
func translate(err error, resource, message string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintForeignKey:
			return &models.ConflictError{Resource: resource, Message: message}
		}
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
