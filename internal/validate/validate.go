// Package validate runs ozzo-validation rules in declaration order and
// reports only the first violation.
package validate

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/lecturely/backend/internal/apperr"
)

// Field pairs a value with the rules it must satisfy.
type Field struct {
	value interface{}
	rules []validation.Rule
}

// Check builds a Field. Pointer values are dereferenced by ozzo; nil pointers
// only fail Required-style rules.
func Check(value interface{}, rules ...validation.Rule) Field {
	return Field{value: value, rules: rules}
}

// First validates fields in order and returns the first violation as an
// apperr.ValidationError.
func First(fields ...Field) error {
	for _, f := range fields {
		if err := validation.Validate(f.value, f.rules...); err != nil {
			var ie validation.InternalError
			if errors.As(err, &ie) {
				return apperr.Dependency("Validation failed", err)
			}
			return apperr.Validation(err.Error())
		}
	}
	return nil
}

// Required fails with msg when the value is empty.
func Required(msg string) validation.Rule {
	return validation.Required.Error(msg)
}

// ID fails with msg unless the value is empty or a UUID.
func ID(msg string) validation.Rule {
	return is.UUID.Error(msg)
}

// RequiredID fails with msg unless the value is a UUID.
func RequiredID(msg string) []validation.Rule {
	return []validation.Rule{Required(msg), ID(msg)}
}

// Timestamp fails with msg unless the value is empty or RFC 3339.
func Timestamp(msg string) validation.Rule {
	return validation.Date(time.RFC3339).Error(msg)
}

// ParseID parses s as a UUID, returning a ValidationError with msg on failure.
func ParseID(s, msg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, apperr.Validation(msg)
	}
	return id, nil
}

// ParseOptionalID parses a non-nil s.
func ParseOptionalID(s *string, msg string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := ParseID(*s, msg)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalTime parses a non-nil RFC 3339 s.
func ParseOptionalTime(s *string, msg string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		return nil, apperr.Validation(msg)
	}
	return &t, nil
}
