package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	id := uuid.New()

	testCases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"validation", NewFieldError("name", "Name is required"), KindValidation},
		{"wrapped validation", fmt.Errorf("create: %w", NewFieldError("email", "Invalid email address")), KindValidation},
		{"not found", NewNotFound(ResourceCampaign, id), KindNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFound(ResourceCustomerList, id)), KindNotFound},
		{"unauthenticated", ErrUnauthenticated, KindUnauthenticated},
		{"conflict", &ConflictError{Resource: ResourceCustomerList, Message: "name taken"}, KindConflict},
		{"internal", errors.New("disk on fire"), KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	id := uuid.MustParse("6f1c1c1e-8f2b-4b55-9c59-2f3c0e7a9d10")
	err := NewNotFound(ResourceCustomerList, id)
	assert.Equal(t, "Customer list with ID 6f1c1c1e-8f2b-4b55-9c59-2f3c0e7a9d10 not found", err.Error())

	assert.Equal(t, "Campaign not found", (&NotFoundError{Resource: ResourceCampaign}).Error())
}

func TestValidationErrorListsEveryField(t *testing.T) {
	err := &ValidationError{
		Message: "Validation error",
		Fields: []FieldError{
			{Field: "name", Message: "Name must be at least 2 characters long"},
			{Field: "email", Message: "Invalid email address"},
		},
	}

	assert.Contains(t, err.Error(), "name: Name must be at least 2 characters long")
	assert.Contains(t, err.Error(), "email: Invalid email address")
}

func TestValidationErrorJSON(t *testing.T) {
	testCases := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			"fields",
			NewFieldError("name", "Name is required"),
			`{"message":"Validation error","errors":[{"field":"name","message":"Name is required"}]}`,
		},
		{
			"rows",
			&ValidationError{Message: "No valid records found in file", Rows: []RowError{{Row: 1, Error: "Invalid email address"}}},
			`{"message":"No valid records found in file","errors":[{"row":1,"error":"Invalid email address"}]}`,
		},
		{
			"message only",
			&ValidationError{Message: "Only CSV or XLSX files are allowed"},
			`{"message":"Only CSV or XLSX files are allowed"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.err)
			assert.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}
