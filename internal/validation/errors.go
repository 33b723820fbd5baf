package validation

import (
	"errors"
	"strings"
)

var (
	// ErrValidationFailed is matched by every *Error.
	ErrValidationFailed = errors.New("validation failed")

	// ErrMalformedBody is returned when a payload is not parseable JSON at all.
	ErrMalformedBody = errors.New("validation: malformed JSON body")
)

// Violation is a single field-level rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the violation as "field message".
func (v Violation) String() string {
	return v.Field + " " + v.Message
}

// Error reports every violation found for one operation.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidationFailed.
func (e *Error) Is(target error) bool {
	return target == ErrValidationFailed
}

// HasField reports whether any violation names the given field.
func (e *Error) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Violations extracts the violation list from err, or nil if err is not a
// validation error.
func Violations(err error) []Violation {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
