// Package validation wraps go-playground/validator with the domain's
// enumeration checks.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shelfie/models"
)

// New returns a validator with the readingstatus and bookformat tags
// registered. Request structs in the server package declare their rules
// with these tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "readingstatus", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(fl.Field().String())
	})
	mustRegister(v, "bookformat", func(fl validator.FieldLevel) bool {
		return models.ValidFormat(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// Message turns a validator error into a client-facing message for the
// first failed field.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	e := verrs[0]
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 5", field)
	case "readingstatus":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.Statuses, ", "))
	case "bookformat":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.Formats, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
