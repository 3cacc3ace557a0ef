package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alimgiray/gcrm/internal/importer"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/validation"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CustomerListService struct {
	store *repositories.Store
}

func NewCustomerListService(store *repositories.Store) *CustomerListService {
	return &CustomerListService{
		store: store,
	}
}

// CreateCustomerList creates a list owned by ownerID
func (s *CustomerListService) CreateCustomerList(ctx context.Context, ownerID uuid.UUID, input *models.CreateCustomerListInput) (*models.CustomerList, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	list := &models.CustomerList{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		UserID:      ownerID,
	}

	err := s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		if err := tx.CustomerLists.Create(ctx, list); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Created new customer list", list.Name)
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"list_id": list.ID, "user_id": ownerID}).Info("Customer list created")
	return list, nil
}

// GetCustomerLists returns the owner's lists, newest first
func (s *CustomerListService) GetCustomerLists(ctx context.Context, ownerID uuid.UUID) ([]*models.CustomerList, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.CustomerLists.GetByOwnerID(ctx, ownerID)
}

// GetCustomerList returns one list owned by ownerID
func (s *CustomerListService) GetCustomerList(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerList, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.store.CustomerLists.GetByID(ctx, id, ownerID)
}

// UpdateCustomerList changes name and description of a list
func (s *CustomerListService) UpdateCustomerList(ctx context.Context, ownerID, id uuid.UUID, input *models.UpdateCustomerListInput) (*models.CustomerList, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var list *models.CustomerList
	err := s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		var err error
		list, err = tx.CustomerLists.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			list.Name = *input.Name
		}
		if input.Description != nil {
			list.Description = strings.TrimSpace(*input.Description)
		}

		if err := tx.CustomerLists.Update(ctx, list); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Updated customer list", list.Name)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteCustomerList removes a list together with its customers and every
// campaign association that referenced it
func (s *CustomerListService) DeleteCustomerList(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		list, err := tx.CustomerLists.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if err := tx.CustomerLists.Delete(ctx, id, ownerID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, ownerID, "Deleted customer list", list.Name)
	})
}

// GetCustomers returns the customers of a list owned by ownerID
func (s *CustomerListService) GetCustomers(ctx context.Context, ownerID, id uuid.UUID) ([]*models.Customer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if _, err := s.store.CustomerLists.GetByID(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.store.Customers.GetByListID(ctx, id, ownerID)
}

// ExportCustomerList renders the list's customers as an XLSX workbook that
// the importer accepts back. It returns the list for naming the download.
func (s *CustomerListService) ExportCustomerList(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerList, []byte, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, nil, err
	}

	list, err := s.store.CustomerLists.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	customers, err := s.store.Customers.GetByListID(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	content, err := importer.WriteXLSX(customers)
	if err != nil {
		return nil, nil, fmt.Errorf("write workbook: %w", err)
	}
	return list, content, nil
}
