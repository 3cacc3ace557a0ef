package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alimgiray/gcrm/internal/auth"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx        context.Context
	db         *sql.DB
	store      *repositories.Store
	users      *UserService
	lists      *CustomerListService
	customers  *CustomerService
	campaigns  *CampaignService
	imports    *ImportService
	activities *ActivityService
	dashboard  *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetOutput(io.Discard)

	db, err := database.Open(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	store := repositories.NewStore(db)
	engine := propagation.NewEngine()

	return &fixture{
		ctx:        context.Background(),
		db:         db,
		store:      store,
		users:      NewUserService(store, auth.NewTokenManager("test-secret", time.Hour)),
		lists:      NewCustomerListService(store),
		customers:  NewCustomerService(store, engine),
		campaigns:  NewCampaignService(store, engine),
		imports:    NewImportService(store, engine),
		activities: NewActivityService(store),
		dashboard:  NewDashboardService(store),
	}
}

// owner inserts a user directly, skipping the bcrypt cost of Register
func (f *fixture) owner(t *testing.T, email string) uuid.UUID {
	t.Helper()
	user := &models.User{Name: "Owner", Email: email, PasswordHash: "x"}
	require.NoError(t, f.store.Users.Create(f.ctx, user))
	return user.ID
}

func (f *fixture) list(t *testing.T, ownerID uuid.UUID, name string) *models.CustomerList {
	t.Helper()
	list, err := f.lists.CreateCustomerList(f.ctx, ownerID, &models.CreateCustomerListInput{Name: name})
	require.NoError(t, err)
	return list
}

func (f *fixture) customer(t *testing.T, ownerID, listID uuid.UUID, name string) *models.Customer {
	t.Helper()
	customer, err := f.customers.CreateCustomer(f.ctx, ownerID, &models.CreateCustomerInput{
		Name:           name,
		Email:          name + "@example.com",
		CustomerListID: listID,
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) campaign(t *testing.T, ownerID uuid.UUID, name string, listIDs ...uuid.UUID) *models.CampaignDetail {
	t.Helper()
	detail, err := f.campaigns.CreateCampaign(f.ctx, ownerID, &models.CreateCampaignInput{
		Name:            name,
		CustomerListIDs: listIDs,
	})
	require.NoError(t, err)
	return detail
}

// members returns the names of a campaign's derived customers
func (f *fixture) members(t *testing.T, ownerID, campaignID uuid.UUID) []string {
	t.Helper()
	customers, err := f.campaigns.GetCampaignCustomers(f.ctx, ownerID, campaignID)
	require.NoError(t, err)
	names := make([]string, 0, len(customers))
	for _, c := range customers {
		names = append(names, c.Name)
	}
	return names
}

func listNames(lists []*models.CustomerList) []string {
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l.Name)
	}
	return names
}
