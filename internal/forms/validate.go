package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the human label from the form tag instead of the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("form"); label != "" && label != "-" {
			return label
		}
		return strings.ToLower(f.Name)
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool { //nolint:errcheck // static registration
		return domain.ValidCategory(fl.Field().String())
	})
	v.RegisterValidation("business_type", func(fl validator.FieldLevel) bool { //nolint:errcheck // static registration
		return domain.ValidBusinessType(fl.Field().String())
	})
	return v
}

// Struct validates s and joins every problem into one readable error.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.Categories, ", "))
	case "business_type":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.BusinessTypes, ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
