package shared

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	internalShared "github.com/smart-inventory/inventory/internal/shared"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks struct tags and reports the first failing field with a
// client-safe message.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return internalShared.MissingFieldsError([]string{fe.Field()})
	case "max":
		return internalShared.FormatError("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return internalShared.FormatError("%s must be a valid email address", fe.Field())
	case "gte":
		return internalShared.FormatError("%s must be non-negative", fe.Field())
	default:
		return internalShared.FormatError("%s is invalid", fe.Field())
	}
}

// Invalidator is notified after every master data write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AuditPort records master data changes.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}
