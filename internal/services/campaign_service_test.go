package services

import (
	"testing"

	"github.com/alimgiray/gcrm/internal/importer"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpringCampaignFollowsItsLists(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")

	listA := f.list(t, owner, "List A")
	listB := f.list(t, owner, "List B")
	f.customer(t, owner, listA.ID, "Alice")
	f.customer(t, owner, listA.ID, "Bob")
	f.customer(t, owner, listB.ID, "Carol")

	spring := f.campaign(t, owner, "Spring", listA.ID)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, f.members(t, owner, spring.ID))

	_, err := f.campaigns.UpdateCampaign(f.ctx, owner, spring.ID, &models.UpdateCampaignInput{
		CustomerListIDs: []uuid.UUID{listA.ID, listB.ID},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice", "Bob", "Carol"}, f.members(t, owner, spring.ID))

	csv := []byte("name,email\nDave,dave@example.com\n")
	result, err := f.imports.ImportCustomers(f.ctx, owner, listB.ID, importer.FormatCSV, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)

	assert.ElementsMatch(t, []string{"Alice", "Bob", "Carol", "Dave"}, f.members(t, owner, spring.ID))
}

func TestCreateCampaignDefaultsAndDuplicateTargets(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	list := f.list(t, owner, "Regulars")
	f.customer(t, owner, list.ID, "Alice")

	detail := f.campaign(t, owner, "Launch", list.ID, list.ID)

	assert.Equal(t, models.StatusInactive, detail.Status)
	assert.Equal(t, []string{"Regulars"}, listNames(detail.CustomerLists))
	assert.Equal(t, []string{"Alice"}, f.members(t, owner, detail.ID))
}

func TestCreateCampaignValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")

	tests := []struct {
		name  string
		input *models.CreateCampaignInput
		field string
	}{
		{
			name:  "no lists",
			input: &models.CreateCampaignInput{Name: "Launch"},
			field: "customerListIds",
		},
		{
			name:  "short name",
			input: &models.CreateCampaignInput{Name: "L", CustomerListIDs: []uuid.UUID{uuid.New()}},
			field: "name",
		},
		{
			name:  "bad status",
			input: &models.CreateCampaignInput{Name: "Launch", Status: "draft", CustomerListIDs: []uuid.UUID{uuid.New()}},
			field: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.campaigns.CreateCampaign(f.ctx, owner, tt.input)
			require.Error(t, err)
			assert.Equal(t, models.KindValidation, models.KindOf(err))

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			fields := make([]string, 0, len(ve.Fields))
			for _, fe := range ve.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCreateCampaignWithForeignListWritesNothing(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	other := f.owner(t, "other@example.com")
	mine := f.list(t, owner, "Mine")
	theirs := f.list(t, other, "Theirs")

	_, err := f.campaigns.CreateCampaign(f.ctx, owner, &models.CreateCampaignInput{
		Name:            "Launch",
		CustomerListIDs: []uuid.UUID{mine.ID, theirs.ID},
	})
	require.Error(t, err)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
	assert.Contains(t, err.Error(), theirs.ID.String())

	campaigns, err := f.campaigns.GetCampaigns(f.ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, campaigns)
}

func TestRetargetReplacesMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	listA := f.list(t, owner, "List A")
	listB := f.list(t, owner, "List B")
	f.customer(t, owner, listA.ID, "Alice")
	f.customer(t, owner, listB.ID, "Carol")

	campaign := f.campaign(t, owner, "Launch", listA.ID)

	detail, err := f.campaigns.UpdateCampaign(f.ctx, owner, campaign.ID, &models.UpdateCampaignInput{
		CustomerListIDs: []uuid.UUID{listB.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"List B"}, listNames(detail.CustomerLists))
	assert.Equal(t, []string{"Carol"}, f.members(t, owner, campaign.ID))
}

func TestRetargetFailureKeepsPriorState(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	listA := f.list(t, owner, "List A")
	f.customer(t, owner, listA.ID, "Alice")
	campaign := f.campaign(t, owner, "Launch", listA.ID)

	name := "Renamed"
	_, err := f.campaigns.UpdateCampaign(f.ctx, owner, campaign.ID, &models.UpdateCampaignInput{
		Name:            &name,
		CustomerListIDs: []uuid.UUID{listA.ID, uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	detail, err := f.campaigns.GetCampaign(f.ctx, owner, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", detail.Name)
	assert.Equal(t, []string{"List A"}, listNames(detail.CustomerLists))
	assert.Equal(t, []string{"Alice"}, f.members(t, owner, campaign.ID))
}

func TestUpdateCampaignTargeting(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	list := f.list(t, owner, "List A")
	f.customer(t, owner, list.ID, "Alice")
	campaign := f.campaign(t, owner, "Launch", list.ID)

	t.Run("nil list ids keep targeting", func(t *testing.T) {
		status := "ACTIVE"
		detail, err := f.campaigns.UpdateCampaign(f.ctx, owner, campaign.ID, &models.UpdateCampaignInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, detail.Status)
		assert.Equal(t, []string{"List A"}, listNames(detail.CustomerLists))
		assert.Equal(t, []string{"Alice"}, f.members(t, owner, campaign.ID))
	})

	t.Run("empty list ids rejected", func(t *testing.T) {
		_, err := f.campaigns.UpdateCampaign(f.ctx, owner, campaign.ID, &models.UpdateCampaignInput{
			CustomerListIDs: []uuid.UUID{},
		})
		assert.Equal(t, models.KindValidation, models.KindOf(err))
		assert.Equal(t, []string{"Alice"}, f.members(t, owner, campaign.ID))
	})
}

func TestCampaignOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	other := f.owner(t, "other@example.com")
	list := f.list(t, owner, "List A")
	campaign := f.campaign(t, owner, "Launch", list.ID)

	_, err := f.campaigns.GetCampaign(f.ctx, other, campaign.ID)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	_, err = f.campaigns.GetCampaignCustomers(f.ctx, other, campaign.ID)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	err = f.campaigns.DeleteCampaign(f.ctx, other, campaign.ID)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	campaigns, err := f.campaigns.GetCampaigns(f.ctx, other)
	require.NoError(t, err)
	assert.Empty(t, campaigns)

	_, err = f.campaigns.GetCampaigns(f.ctx, uuid.Nil)
	assert.Equal(t, models.KindUnauthenticated, models.KindOf(err))
}

func TestDeleteListCascadesToCampaigns(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	listA := f.list(t, owner, "List A")
	listB := f.list(t, owner, "List B")
	f.customer(t, owner, listA.ID, "Alice")
	f.customer(t, owner, listA.ID, "Bob")
	f.customer(t, owner, listA.ID, "Eve")
	f.customer(t, owner, listB.ID, "Carol")
	campaign := f.campaign(t, owner, "Launch", listA.ID, listB.ID)
	require.Len(t, f.members(t, owner, campaign.ID), 4)

	require.NoError(t, f.lists.DeleteCustomerList(f.ctx, owner, listA.ID))

	customers, err := f.customers.GetCustomers(f.ctx, owner)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Carol", customers[0].Name)

	detail, err := f.campaigns.GetCampaign(f.ctx, owner, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"List B"}, listNames(detail.CustomerLists))
	assert.Equal(t, []string{"Carol"}, f.members(t, owner, campaign.ID))
}

func TestDeleteCampaignKeepsCustomers(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t, "u@example.com")
	list := f.list(t, owner, "List A")
	f.customer(t, owner, list.ID, "Alice")
	campaign := f.campaign(t, owner, "Launch", list.ID)

	require.NoError(t, f.campaigns.DeleteCampaign(f.ctx, owner, campaign.ID))

	_, err := f.campaigns.GetCampaign(f.ctx, owner, campaign.ID)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))

	customers, err := f.lists.GetCustomers(f.ctx, owner, list.ID)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}
