package database

import (
	"testing"
	"time"
)

func TestFormatTime_SortsChronologically(t *testing.T) {
	early := FormatTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	late := FormatTime(time.Date(2025, 1, 1, 0, 0, 0, 5, time.UTC))
	if len(early) != len(late) {
		t.Fatalf("stored widths differ: %q vs %q", early, late)
	}
	if early >= late {
		t.Errorf("%q should sort before %q", early, late)
	}

	back, err := ParseTime(late)
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if back.Nanosecond() != 5 {
		t.Errorf("ParseTime() lost precision: %v", back)
	}
}

func TestFormatTime_NormalisesZone(t *testing.T) {
	santiago := time.FixedZone("CLT", -3*60*60)
	got := FormatTime(time.Date(2025, 1, 1, 21, 0, 0, 0, santiago))
	if got != "2025-01-02T00:00:00.000000000Z" {
		t.Errorf("FormatTime() = %q", got)
	}
}

func TestParseTime_RFC3339Fallback(t *testing.T) {
	got, err := ParseTime("2026-01-18T20:00:00Z")
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if got.Hour() != 20 {
		t.Errorf("ParseTime() = %v", got)
	}

	if _, err := ParseTime("not a time"); err == nil {
		t.Error("ParseTime() accepted garbage")
	}
}
