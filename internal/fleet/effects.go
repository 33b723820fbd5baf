package fleet

import (
	"context"
	"strconv"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/events"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/fleet-gps-core/internal/position"
)

// record writes an audit entry for a completed mutation.
func (s *Service) record(ctx context.Context, action, entityType string, entityID int64, details map[string]any) {
	if s.audit == nil {
		return
	}

	entry := &audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   strconv.FormatInt(entityID, 10),
		Source:     audit.SourceFrom(ctx),
		Details:    details,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// publish emits an integration event for a completed mutation.
func (s *Service) publish(ctx context.Context, t events.Type, payload any) {
	if err := s.events.Publish(ctx, events.New(t, audit.SourceFrom(ctx), payload)); err != nil {
		s.logger.Warn("failed to publish event", "type", t, "error", err)
	}
}

// mirror hands a recorded report to the telemetry sink.
func (s *Service) mirror(r *position.Report) {
	if s.telemetry == nil {
		return
	}
	s.telemetry.WritePosition(influxdb.PositionSample{
		DeviceID:    r.DeviceID,
		EngineState: string(r.EngineState),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Speed:       r.Speed,
		Heading:     r.Heading,
		ReportedAt:  r.ReportedAt,
	})
}

// suppliedFields names the fields present in an update request.
func suppliedFields(in device.Input) []string {
	fields := make([]string, 0, 6)
	add := func(name string, v *string) {
		if v != nil {
			fields = append(fields, name)
		}
	}
	add("external_code", in.ExternalCode)
	add("vehicle_label", in.VehicleLabel)
	add("vehicle_kind", in.VehicleKind)
	add("provider", in.Provider)
	add("status", in.Status)
	add("last_reported_at", in.LastReportedAt)
	return fields
}
