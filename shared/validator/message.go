package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"empty":    "{field} must be empty",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",

	"naive_datetime": "{field} must be a datetime such as 2024-01-10T10:00:00",
	"date_only":      "{field} must be a date in YYYY-MM-DD format",
	"clock_time":     "{field} must be a time in HH:MM format",
}

// message renders every failed rule, joined with "; ". Rules without a template fall back to
// the validator's own text.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			parts = append(parts, valErr.Error())

			continue
		}

		parts = append(parts, strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(template))
	}

	return strings.Join(parts, "; ")
}
