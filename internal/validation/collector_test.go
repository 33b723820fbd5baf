package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

type color string

var allColors = []color{"red", "green", "blue"}

func strPtr(s string) *string { return &s }
func numPtr(f float64) *float64 { return &f }
func idPtr(i int64) *int64 { return &i }

func TestCollector_CreateRequiresEveryField(t *testing.T) {
	c := NewCollector(Create)
	c.String("name", nil)
	c.Timestamp("seen_at", nil)
	c.Number("speed", nil)
	c.ID("device_id", nil)
	Enum(c, "color", nil, allColors)

	err := c.Err()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Err() = %v, want ErrValidationFailed", err)
	}

	got := Violations(err)
	if len(got) != 5 {
		t.Fatalf("len(violations) = %d, want 5: %v", len(got), got)
	}
	for _, v := range got {
		if v.Message != "is required" {
			t.Errorf("violation %s message = %q, want %q", v.Field, v.Message, "is required")
		}
	}
}

func TestCollector_UpdateIgnoresAbsentFields(t *testing.T) {
	c := NewCollector(Update)
	if _, ok := c.String("name", nil); ok {
		t.Error("String(nil) ok = true, want false")
	}
	if _, ok := c.Number("speed", nil); ok {
		t.Error("Number(nil) ok = true, want false")
	}
	if err := c.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestCollector_String(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		input   *string
		want    string
		wantOK  bool
		wantErr bool
	}{
		{name: "trims whitespace", mode: Create, input: strPtr("  truck "), want: "truck", wantOK: true},
		{name: "empty on create", mode: Create, input: strPtr(""), wantErr: true},
		{name: "blank on update", mode: Update, input: strPtr("   "), wantErr: true},
		{name: "value on update", mode: Update, input: strPtr("van"), want: "van", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.mode)
			got, ok := c.String("vehicle_kind", tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("String() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if (c.Err() != nil) != tt.wantErr {
				t.Errorf("Err() = %v, wantErr %v", c.Err(), tt.wantErr)
			}
		})
	}
}

func TestEnum_NamesAllowedSet(t *testing.T) {
	c := NewCollector(Create)
	if _, ok := Enum(c, "color", strPtr("Red"), allColors); ok {
		t.Fatal("Enum() accepted a case-mismatched value")
	}

	got := Violations(c.Err())
	if len(got) != 1 {
		t.Fatalf("len(violations) = %d, want 1", len(got))
	}
	if got[0].Field != "color" {
		t.Errorf("Field = %q, want %q", got[0].Field, "color")
	}
	if !strings.Contains(got[0].Message, "red, green, blue") {
		t.Errorf("Message = %q, want allowed set listed", got[0].Message)
	}
}

func TestEnum_Match(t *testing.T) {
	c := NewCollector(Create)
	got, ok := Enum(c, "color", strPtr("green"), allColors)
	if !ok || got != "green" {
		t.Errorf("Enum() = (%q, %v), want (green, true)", got, ok)
	}
}

func TestCollector_Number(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := NewCollector(Create)
		if _, ok := c.Number("speed", numPtr(f)); ok {
			t.Errorf("Number(%v) ok = true, want false", f)
		}
		if c.Err() == nil {
			t.Errorf("Number(%v) recorded no violation", f)
		}
	}

	c := NewCollector(Create)
	if got, ok := c.Number("heading", numPtr(-12.5)); !ok || got != -12.5 {
		t.Errorf("Number(-12.5) = (%v, %v)", got, ok)
	}
	if got, ok := c.ID("device_id", idPtr(7)); !ok || got != 7 {
		t.Errorf("ID(7) = (%v, %v)", got, ok)
	}
}

func TestCollector_Timestamp(t *testing.T) {
	c := NewCollector(Create)
	got, ok := c.Timestamp("reported_at", strPtr("2025-01-02T03:04:05-03:00"))
	if !ok {
		t.Fatalf("Timestamp() rejected a valid value: %v", c.Err())
	}
	want := time.Date(2025, 1, 2, 6, 4, 5, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("Timestamp() = %v, want %v in UTC", got, want)
	}

	c = NewCollector(Create)
	if _, ok := c.Timestamp("reported_at", strPtr("2025-13-45")); ok {
		t.Error("Timestamp() accepted an invalid calendar date")
	}
}

func TestCollector_CollectsAllViolations(t *testing.T) {
	c := NewCollector(Create)
	c.String("a", strPtr(""))
	c.String("b", nil)
	Enum(c, "c", strPtr("purple"), allColors)

	verr := c.Err().(*Error)
	for _, field := range []string{"a", "b", "c"} {
		if !verr.HasField(field) {
			t.Errorf("missing violation for %s in %v", field, verr.Violations)
		}
	}
	if !strings.HasPrefix(verr.Error(), "validation failed: ") {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestViolations_NonValidationError(t *testing.T) {
	if got := Violations(errors.New("boom")); got != nil {
		t.Errorf("Violations() = %v, want nil", got)
	}
}
