package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator checks request DTO shape before any domain logic runs.
// Domain rules (duration bounds, recurrence windows, reference existence)
// stay in the application layer.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return v
}

// validateRequest runs struct tag validation and flattens failures into a
// field keyed map suitable for errorResponse.Errors. A nil result means the
// payload shape is acceptable.
func validateRequest(req any) map[string]string {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"request": "unsupported request payload"}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		out[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return out
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt", "gte":
		return "must be positive"
	default:
		return "is invalid"
	}
}
