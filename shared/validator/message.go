package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"notblank":    "{field} must not be blank",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lt":          "{field} must be less than {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"max":         "{field} must be less than or equal to {param}",
	"min":         "{field} must be greater than or equal to {param}",
	"email":       "{field} must be a valid email address",
	"date":        "{field} must be a date (YYYY-MM-DD)",
	"maxfilesize": "{field} must not exceed {param} MB",
	"decimals":    "{field} must have at most {param} decimal places",
	"nefield":     "{field} must differ from {param}",
}

// message renders the first violation that has a template, falling back to the
// validator's own text.
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	for _, violation := range violations {
		if template, ok := messages[violation.Tag()]; ok {
			return strings.NewReplacer("{field}", violation.Field(), "{param}", violation.Param()).Replace(template)
		}
	}

	return violations.Error()
}
