package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/position"
)

type seedDevice struct {
	code, label, kind, provider, status string
	reportedAgo                         time.Duration
}

var seedDevices = []seedDevice{
	{"GPS001", "Delivery Truck 1", "truck", "Vista", "active", 0},
	{"GPS002", "Executive Car", "car", "Entel", "active", 0},
	{"GPS003", "Delivery Motorcycle", "motorcycle", "Geotab", "inactive", 24 * time.Hour},
	{"GPS004", "Logistics Van", "van", "Copiloto", "active", 0},
}

type seedPosition struct {
	device                int // index into seedDevices
	lat, lon, speed, head float64
	label, engine         string
}

var seedPositions = []seedPosition{
	{0, -33.4489, -70.6693, 45, 180, "Av. Providencia, Santiago", "on"},
	{1, -33.4378, -70.6504, 0, 0, "Corporate Building, Las Condes", "off"},
	{3, -33.4569, -70.6483, 32, 90, "Av. Vitacura, Las Condes", "on"},
}

// Seed loads the demo fleet when the registry is empty.
// It reports whether anything was written.
func Seed(ctx context.Context, svc *Service, now time.Time) (bool, error) {
	existing, err := svc.ListDevices(ctx, device.Filter{})
	if err != nil {
		return false, fmt.Errorf("checking device count: %w", err)
	}
	if len(existing) > 0 {
		svc.logger.Info("devices exist, skipping seed", "count", len(existing))
		return false, nil
	}

	ctx = audit.WithSource(ctx, audit.SourceSeed)
	now = now.UTC()

	ids := make([]int64, len(seedDevices))
	for i, sd := range seedDevices {
		reported := now.Add(-sd.reportedAgo).Format(time.RFC3339Nano)
		d, err := svc.CreateDevice(ctx, device.Input{
			ExternalCode:   &sd.code,
			VehicleLabel:   &sd.label,
			VehicleKind:    &sd.kind,
			Provider:       &sd.provider,
			Status:         &sd.status,
			LastReportedAt: &reported,
		})
		if err != nil {
			return false, fmt.Errorf("seeding device %s: %w", sd.code, err)
		}
		ids[i] = d.ID
	}

	reported := now.Format(time.RFC3339Nano)
	for _, sp := range seedPositions {
		if _, err := svc.RecordPosition(ctx, position.Input{
			DeviceID:      &ids[sp.device],
			Latitude:      &sp.lat,
			Longitude:     &sp.lon,
			Speed:         &sp.speed,
			Heading:       &sp.head,
			ReportedAt:    &reported,
			LocationLabel: &sp.label,
			EngineState:   &sp.engine,
		}); err != nil {
			return false, fmt.Errorf("seeding position for %s: %w", seedDevices[sp.device].code, err)
		}
	}

	svc.logger.Info("demo fleet seeded", "devices", len(seedDevices), "positions", len(seedPositions))
	return true, nil
}
