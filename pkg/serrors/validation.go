package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ProcessValidatorErrors converts validator output into ValidationErrors.
// fieldName may rename struct fields; an empty result keeps the original name.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldName func(string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, err := range errs {
		name := err.Field()
		if fieldName != nil {
			if renamed := fieldName(name); renamed != "" {
				name = renamed
			}
		}
		out[name] = describeTag(err)
	}
	return out
}

func describeTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", err.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", err.Param())
	default:
		return fmt.Sprintf("failed on %q", err.Tag())
	}
}
