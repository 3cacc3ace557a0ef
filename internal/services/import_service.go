package services

import (
	"context"
	"fmt"

	"github.com/alimgiray/gcrm/internal/importer"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ImportService struct {
	store  *repositories.Store
	engine *propagation.Engine
}

func NewImportService(store *repositories.Store, engine *propagation.Engine) *ImportService {
	return &ImportService{
		store:  store,
		engine: engine,
	}
}

// ImportCustomers parses content and adds every valid row to the list as a new
// customer. Invalid rows are reported and skipped. When no row is valid the
// call fails with the row errors and nothing is written.
func (s *ImportService) ImportCustomers(ctx context.Context, ownerID, listID uuid.UUID, format importer.Format, content []byte) (*models.ImportResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	list, err := s.store.CustomerLists.GetByID(ctx, listID, ownerID)
	if err != nil {
		return nil, err
	}

	parsed, err := importer.Parse(format, content)
	if err != nil {
		return nil, err
	}
	if len(parsed.Records) == 0 {
		return nil, &models.ValidationError{
			Message: "No valid records found in file",
			Rows:    parsed.Errors,
		}
	}

	customers := make([]*models.Customer, 0, len(parsed.Records))
	for _, record := range parsed.Records {
		customers = append(customers, &models.Customer{
			Name:           record.Name,
			Email:          record.Email,
			PhoneNumber:    record.PhoneNumber,
			Status:         record.Status,
			CustomerListID: list.ID,
			UserID:         ownerID,
		})
	}

	var linked int64
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		var err error
		linked, err = s.persist(ctx, tx, list, format, customers)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"list_id":        list.ID,
		"imported":       len(customers),
		"rejected":       len(parsed.Errors),
		"campaign_links": linked,
	}).Info("Customers imported")

	return &models.ImportResult{
		ImportedCount: len(customers),
		Errors:        parsed.Errors,
	}, nil
}

func activityFormat(format importer.Format) string {
	if format == importer.FormatXLSX {
		return "XLSX"
	}
	return "CSV"
}

// persist inserts customers into list and extends the membership of every
// campaign targeting it. The list is re-read through tx since it may have been
// deleted after the caller first looked it up.
func (s *ImportService) persist(ctx context.Context, tx *repositories.Store, list *models.CustomerList, format importer.Format, customers []*models.Customer) (int64, error) {
	if _, err := tx.CustomerLists.GetByID(ctx, list.ID, list.UserID); err != nil {
		return 0, err
	}
	if err := tx.Customers.CreateBatch(ctx, customers); err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}

	linked, err := s.engine.ExtendOnImport(ctx, tx, list.ID, ids)
	if err != nil {
		return 0, err
	}

	err = recordActivity(ctx, tx, list.UserID, "Imported customers via "+activityFormat(format),
		fmt.Sprintf("Added %d customers to %s", len(customers), quote(list.Name)))
	return linked, err
}
