package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be at most {param} characters",
	"min":      "{field} must be at least {param} characters",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"rfc3339":  "{field} must be an RFC3339 timestamp",
	"dateonly": "{field} must be a date in YYYY-MM-DD format",
}

// message renders every field error, in struct order, joined with "; ".
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(valErrors))

	for _, fieldErr := range valErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			parts = append(parts, fieldErr.Error())

			continue
		}

		parts = append(parts, strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template))
	}

	return strings.Join(parts, "; ")
}
