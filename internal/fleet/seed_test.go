package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
)

func TestSeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seeded, err := Seed(ctx, f.svc, now)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !seeded {
		t.Fatal("Seed() on empty registry = false")
	}

	devices, _ := f.svc.ListDevices(ctx, device.Filter{})
	if len(devices) != 4 {
		t.Fatalf("devices = %d, want 4", len(devices))
	}
	gps003 := devices[2]
	if gps003.ExternalCode != "GPS003" || gps003.Status != device.StatusInactive {
		t.Errorf("third device = %+v", gps003)
	}
	if !gps003.LastReportedAt.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("GPS003 last_reported_at = %v, want one day earlier", gps003.LastReportedAt)
	}

	positions, _ := f.svc.ListPositions(ctx)
	if len(positions) != 3 {
		t.Errorf("positions = %d, want 3", len(positions))
	}
	for _, e := range f.audit.entries {
		if e.Source != audit.SourceSeed {
			t.Errorf("audit source = %q, want seed", e.Source)
		}
	}

	seeded, err = Seed(ctx, f.svc, now)
	if err != nil || seeded {
		t.Errorf("second Seed() = %v, %v; want skipped", seeded, err)
	}
	devices, _ = f.svc.ListDevices(ctx, device.Filter{})
	if len(devices) != 4 {
		t.Errorf("devices after second seed = %d, want 4", len(devices))
	}
}
