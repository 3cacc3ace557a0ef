package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the stable outcome category callers branch on
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

// ErrUnauthenticated means no principal could be resolved from the credential
var ErrUnauthenticated = errors.New("not authenticated")

// FieldError is a single violated constraint on an input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field. Import failures carry per-row
// errors in Rows instead. Both serialize under "errors".
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"-"`
	Rows    []RowError   `json:"-"`
}

func (e ValidationError) MarshalJSON() ([]byte, error) {
	body := struct {
		Message string `json:"message"`
		Errors  any    `json:"errors,omitempty"`
	}{Message: e.Message}
	switch {
	case len(e.Fields) > 0:
		body.Errors = e.Fields
	case len(e.Rows) > 0:
		body.Errors = e.Rows
	}
	return json.Marshal(body)
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewFieldError builds a validation error for one field
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "Validation error",
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// NotFoundError means the resource does not exist for the requesting owner.
// It is also returned when the resource exists but belongs to someone else.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id fmt.Stringer) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

// ConflictError is a uniqueness or integrity violation reported by the store
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) ErrorKind {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var conflictErr *ConflictError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.As(err, &conflictErr):
		return KindConflict
	default:
		return KindInternal
	}
}

// Resource names used in NotFound and Conflict errors
const (
	ResourceUser         = "User"
	ResourceCustomerList = "Customer list"
	ResourceCustomer     = "Customer"
	ResourceCampaign     = "Campaign"
)
