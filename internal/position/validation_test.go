package position

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func validInput(deviceID int64, reportedAt string) Input {
	return Input{
		DeviceID:      ptr(deviceID),
		Latitude:      ptr(-33.4489),
		Longitude:     ptr(-70.6693),
		Speed:         ptr(45.5),
		Heading:       ptr(180.0),
		ReportedAt:    ptr(reportedAt),
		LocationLabel: ptr("Santiago Centro"),
		EngineState:   ptr("on"),
	}
}

func TestParseCreate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseCreate(validInput(1, "2026-03-01T10:00:00-03:00"))
		if err != nil {
			t.Fatalf("ParseCreate() error = %v", err)
		}
		want := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
		if !d.ReportedAt.Equal(want) || d.ReportedAt.Location() != time.UTC {
			t.Errorf("ReportedAt = %v, want %v in UTC", d.ReportedAt, want)
		}
		if d.EngineState != EngineOn {
			t.Errorf("EngineState = %s, want on", d.EngineState)
		}
	})

	t.Run("missing everything", func(t *testing.T) {
		_, err := ParseCreate(Input{})
		if got := validation.Violations(err); len(got) != 8 {
			t.Errorf("violations = %v, want 8", got)
		}
	})

	tests := []struct {
		name  string
		mut   func(in *Input)
		field string
	}{
		{"NaN latitude", func(in *Input) { in.Latitude = ptr(math.NaN()) }, "latitude"},
		{"infinite speed", func(in *Input) { in.Speed = ptr(math.Inf(1)) }, "speed"},
		{"engine state idle", func(in *Input) { in.EngineState = ptr("idle") }, "engine_state"},
		{"engine state upper case", func(in *Input) { in.EngineState = ptr("ON") }, "engine_state"},
		{"blank label", func(in *Input) { in.LocationLabel = ptr(" ") }, "location_label"},
		{"unparsable time", func(in *Input) { in.ReportedAt = ptr("2026-13-45") }, "reported_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(1, "2026-03-01T10:00:00Z")
			tt.mut(&in)

			_, err := ParseCreate(in)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("ParseCreate() error = %v, want *validation.Error", err)
			}
			if len(verr.Violations) != 1 || verr.Violations[0].Field != tt.field {
				t.Errorf("violations = %v, want one for %s", verr.Violations, tt.field)
			}
		})
	}
}

func TestDecodeInput(t *testing.T) {
	in, err := DecodeInput([]byte(`{"device_id": 3, "speed": 0, "engine_state": "off"}`))
	if err != nil {
		t.Fatalf("DecodeInput() error = %v", err)
	}
	if in.DeviceID == nil || *in.DeviceID != 3 || in.Speed == nil || *in.Speed != 0 {
		t.Errorf("DecodeInput() = %+v", in)
	}

	_, err = DecodeInput([]byte(`{"device_id": "3"}`))
	var verr *validation.Error
	if !errors.As(err, &verr) || !verr.HasField("device_id") {
		t.Errorf("string device_id error = %v, want device_id violation", err)
	}

	_, err = DecodeInput([]byte(`{"device_id": 1.5}`))
	if !errors.Is(err, validation.ErrValidationFailed) {
		t.Errorf("fractional device_id error = %v, want ErrValidationFailed", err)
	}

	_, err = DecodeInput([]byte(`{"altitude": 500}`))
	if !errors.Is(err, validation.ErrValidationFailed) {
		t.Errorf("unknown property error = %v, want ErrValidationFailed", err)
	}
}

func TestParseWindow(t *testing.T) {
	t.Run("all blank", func(t *testing.T) {
		w, err := ParseWindow("", "", "")
		if err != nil {
			t.Fatalf("ParseWindow() error = %v", err)
		}
		if w.From != nil || w.To != nil || w.Limit != 0 {
			t.Errorf("ParseWindow() = %+v, want zero window", w)
		}
	})

	t.Run("bounds and limit", func(t *testing.T) {
		w, err := ParseWindow("2026-03-01", "2026-03-02T00:00:00Z", "25")
		if err != nil {
			t.Fatalf("ParseWindow() error = %v", err)
		}
		if w.From == nil || w.To == nil || w.Limit != 25 {
			t.Errorf("ParseWindow() = %+v", w)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		w, err := ParseWindow("", "", "50000")
		if err != nil {
			t.Fatalf("ParseWindow() error = %v", err)
		}
		if w.Limit != MaxHistoryLimit {
			t.Errorf("Limit = %d, want %d", w.Limit, MaxHistoryLimit)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseWindow("later", "2026-03-01", "-1")
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("ParseWindow() error = %v, want *validation.Error", err)
		}
		if !verr.HasField("from") || !verr.HasField("limit") {
			t.Errorf("violations = %v", verr.Violations)
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := ParseWindow("2026-03-02", "2026-03-01", "")
		var verr *validation.Error
		if !errors.As(err, &verr) || !verr.HasField("from") {
			t.Errorf("ParseWindow() error = %v, want from violation", err)
		}
	})
}
