package validation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mode selects the presence rules applied by a Collector.
type Mode int

const (
	// Create requires every field to be present.
	Create Mode = iota
	// Update treats absent fields as "leave unchanged".
	Update
)

// Collector accumulates violations across all fields of one operation.
//
// Each check returns the normalised value and whether the field was present
// and valid. Absent fields are only a violation in Create mode.
type Collector struct {
	mode       Mode
	violations []Violation
}

// NewCollector returns an empty collector for the given mode.
func NewCollector(mode Mode) *Collector {
	return &Collector{mode: mode}
}

// Mode returns the collector's mode.
func (c *Collector) Mode() Mode {
	return c.mode
}

// Add records a violation for field.
func (c *Collector) Add(field, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns nil when no violations were recorded, otherwise *Error.
func (c *Collector) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	out := make([]Violation, len(c.violations))
	copy(out, c.violations)
	return &Error{Violations: out}
}

// present handles the absent case shared by every check.
func (c *Collector) present(field string, isNil bool) bool {
	if !isNil {
		return true
	}
	if c.mode == Create {
		c.Add(field, "is required")
	}
	return false
}

// String checks a free-text field. Surrounding whitespace is trimmed and a
// blank result is a violation in either mode.
func (c *Collector) String(field string, v *string) (string, bool) {
	if !c.present(field, v == nil) {
		return "", false
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		c.Add(field, "must not be empty")
		return "", false
	}
	return s, true
}

// Timestamp checks that a field parses as a calendar date-time.
// The result is normalised to UTC.
func (c *Collector) Timestamp(field string, v *string) (time.Time, bool) {
	if !c.present(field, v == nil) {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(*v)
	if err != nil {
		c.Add(field, "must be an ISO-8601 date-time, got %q", *v)
		return time.Time{}, false
	}
	return t, true
}

// Number checks that a field is a finite number.
func (c *Collector) Number(field string, v *float64) (float64, bool) {
	if !c.present(field, v == nil) {
		return 0, false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		c.Add(field, "must be a finite number")
		return 0, false
	}
	return *v, true
}

// ID checks a required integer reference.
func (c *Collector) ID(field string, v *int64) (int64, bool) {
	if !c.present(field, v == nil) {
		return 0, false
	}
	return *v, true
}

// Enum checks that v is a literal member of allowed. The violation message
// lists the allowed set in declaration order.
func Enum[T ~string](c *Collector, field string, v *string, allowed []T) (T, bool) {
	var zero T
	if !c.present(field, v == nil) {
		return zero, false
	}
	for _, a := range allowed {
		if string(a) == *v {
			return a, true
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	c.Add(field, "must be one of: %s", strings.Join(names, ", "))
	return zero, false
}
