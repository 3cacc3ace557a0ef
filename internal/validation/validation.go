// Package validation checks input structs against their `validate` tags and
// reports every violated field at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v and returns a *models.ValidationError listing all
// violations, or nil.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	out := &models.ValidationError{Message: "Validation error"}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, models.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// Merge appends the field errors of extra to err, creating err if needed
func Merge(err error, extra ...models.FieldError) error {
	if len(extra) == 0 {
		return err
	}

	var out *models.ValidationError
	if err == nil {
		out = &models.ValidationError{Message: "Validation error"}
	} else if !errors.As(err, &out) {
		return err
	}
	out.Fields = append(out.Fields, extra...)
	return out
}

// Summary joins the field messages into a single line, used for import rows
func Summary(err error) string {
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func message(fe validator.FieldError) string {
	label := displayName(fe.Field())

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "email":
		return "Invalid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// displayName turns "phoneNumber" into "Phone number"
func displayName(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
