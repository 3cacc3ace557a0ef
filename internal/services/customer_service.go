package services

import (
	"context"
	"strings"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/validation"
	"github.com/google/uuid"
)

type CustomerService struct {
	store  *repositories.Store
	engine *propagation.Engine
}

func NewCustomerService(store *repositories.Store, engine *propagation.Engine) *CustomerService {
	return &CustomerService{
		store:  store,
		engine: engine,
	}
}

// CreateCustomer adds a customer to a list owned by ownerID. The new customer
// joins every campaign already targeting that list.
func (s *CustomerService) CreateCustomer(ctx context.Context, ownerID uuid.UUID, input *models.CreateCustomerInput) (*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))

	err := validation.Struct(input)
	if input.CustomerListID == uuid.Nil {
		err = validation.Merge(err, models.FieldError{Field: "customerListId", Message: "Customer list is required"})
	}
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:           input.Name,
		Email:          input.Email,
		PhoneNumber:    strings.TrimSpace(input.PhoneNumber),
		Status:         input.Status,
		CustomerListID: input.CustomerListID,
		UserID:         ownerID,
	}

	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		list, err := tx.CustomerLists.GetByID(ctx, input.CustomerListID, ownerID)
		if err != nil {
			return err
		}
		if err := tx.Customers.Create(ctx, customer); err != nil {
			return err
		}
		if _, err := s.engine.ExtendOnImport(ctx, tx, list.ID, []uuid.UUID{customer.ID}); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Added new customer", customer.Name+" to "+quote(list.Name))
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomers returns every customer of the owner
func (s *CustomerService) GetCustomers(ctx context.Context, ownerID uuid.UUID) ([]*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.Customers.GetByOwnerID(ctx, ownerID)
}

// GetCustomer returns one customer owned by ownerID
func (s *CustomerService) GetCustomer(ctx context.Context, ownerID, id uuid.UUID) (*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.Customers.GetByID(ctx, id, ownerID)
}

// UpdateCustomer applies the supplied fields. Moving a customer to another
// list moves its campaign membership along with it.
func (s *CustomerService) UpdateCustomer(ctx context.Context, ownerID, id uuid.UUID, input *models.UpdateCustomerInput) (*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	trimInPlace(input.Name)
	trimInPlace(input.Email)
	trimInPlace(input.PhoneNumber)
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		input.Status = &status
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var customer *models.Customer
	err := s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		var err error
		customer, err = tx.Customers.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		moved := false
		if input.CustomerListID != nil && *input.CustomerListID != customer.CustomerListID {
			if _, err := tx.CustomerLists.GetByID(ctx, *input.CustomerListID, ownerID); err != nil {
				return err
			}
			customer.CustomerListID = *input.CustomerListID
			moved = true
		}
		if input.Name != nil {
			customer.Name = *input.Name
		}
		if input.Email != nil {
			customer.Email = *input.Email
		}
		if input.PhoneNumber != nil {
			customer.PhoneNumber = *input.PhoneNumber
		}
		if input.Status != nil {
			customer.Status = *input.Status
		}

		if err := tx.Customers.Update(ctx, customer); err != nil {
			return err
		}
		if moved {
			if err := s.engine.Reassign(ctx, tx, customer.ID, customer.CustomerListID); err != nil {
				return err
			}
		}
		return recordActivity(ctx, tx, ownerID, "Updated customer", customer.Name)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer and its campaign links
func (s *CustomerService) DeleteCustomer(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		customer, err := tx.Customers.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if err := tx.Customers.Delete(ctx, id, ownerID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Deleted customer", customer.Name)
	})
}

func trimInPlace(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func quote(s string) string {
	return `"` + s + `"`
}
