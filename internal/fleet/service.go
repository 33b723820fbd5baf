package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/events"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/fleet-gps-core/internal/position"
)

// DeviceRegistry is what the service needs from the device package.
type DeviceRegistry interface {
	ListDevices(ctx context.Context, filter device.Filter) ([]device.Device, error)
	GetDevice(ctx context.Context, id int64) (*device.Device, error)
	CreateDevice(ctx context.Context, in device.Input) (*device.Device, error)
	UpdateDevice(ctx context.Context, id int64, in device.Input) (*device.Device, error)
	DeleteDevice(ctx context.Context, id int64) (device.DeleteResult, error)
	DeviceExists(ctx context.Context, id int64) (bool, error)
}

// PositionLog is what the service needs from the position package.
type PositionLog interface {
	Append(ctx context.Context, in position.Input) (*position.Report, error)
	LatestFor(ctx context.Context, deviceID int64) (*position.Report, error)
	HistoryFor(ctx context.Context, deviceID int64, window position.Window) ([]position.Report, error)
	ListAll(ctx context.Context) ([]position.Report, error)
	Delete(ctx context.Context, id int64) error
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Create(ctx context.Context, entry *audit.Entry) error
}

// TelemetrySink mirrors recorded positions into a time-series store.
type TelemetrySink interface {
	WritePosition(s influxdb.PositionSample)
}

// Logger is the logging interface used by the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Deps holds the collaborators of a Service. Devices and Positions are
// required; the rest may be nil.
type Deps struct {
	Devices   DeviceRegistry
	Positions PositionLog
	Audit     AuditRecorder
	Events    events.Publisher
	Telemetry TelemetrySink
	Logger    Logger
}

// Service implements the fleet operations on top of the registry and log.
//
// It keeps no state of its own and is safe for concurrent use when its
// collaborators are.
type Service struct {
	devices   DeviceRegistry
	positions PositionLog
	audit     AuditRecorder
	events    events.Publisher
	telemetry TelemetrySink
	logger    Logger
}

// NewService creates a Service.
//
// Parameters:
//   - deps: collaborators; optional ones default to no-ops
//
// Returns:
//   - *Service: ready for use
//   - error: if the registry or the log is missing
func NewService(deps Deps) (*Service, error) {
	if deps.Devices == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Positions == nil {
		return nil, fmt.Errorf("position log is required")
	}

	s := &Service{
		devices:   deps.Devices,
		positions: deps.Positions,
		audit:     deps.Audit,
		events:    deps.Events,
		telemetry: deps.Telemetry,
		logger:    deps.Logger,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.logger == nil {
		s.logger = noopLogger{}
	}
	return s, nil
}

// ListDevices returns the devices matching filter, ordered by id.
func (s *Service) ListDevices(ctx context.Context, filter device.Filter) ([]device.Device, error) {
	return s.devices.ListDevices(ctx, filter)
}

// GetDevice returns device id or device.ErrDeviceNotFound.
func (s *Service) GetDevice(ctx context.Context, id int64) (*device.Device, error) {
	return s.devices.GetDevice(ctx, id)
}

// CreateDevice registers a device.
//
// Returns *validation.Error for invalid input and device.ErrExternalCodeExists
// when the external code is taken.
func (s *Service) CreateDevice(ctx context.Context, in device.Input) (*device.Device, error) {
	d, err := s.devices.CreateDevice(ctx, in)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.ActionCreate, audit.EntityDevice, d.ID, map[string]any{
		"external_code": d.ExternalCode,
		"provider":      d.Provider,
	})
	s.publish(ctx, events.DeviceCreated, d)
	return d, nil
}

// UpdateDevice applies the supplied fields of in to device id.
// Validation runs before the existence check.
func (s *Service) UpdateDevice(ctx context.Context, id int64, in device.Input) (*device.Device, error) {
	d, err := s.devices.UpdateDevice(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.ActionUpdate, audit.EntityDevice, id, map[string]any{
		"fields": suppliedFields(in),
	})
	s.publish(ctx, events.DeviceUpdated, d)
	return d, nil
}

// DeleteDevice removes device id and every report it owns.
func (s *Service) DeleteDevice(ctx context.Context, id int64) (device.DeleteResult, error) {
	result, err := s.devices.DeleteDevice(ctx, id)
	if err != nil {
		return device.DeleteResult{}, err
	}

	s.record(ctx, audit.ActionDelete, audit.EntityDevice, id, map[string]any{
		"positions_removed": result.PositionsRemoved,
	})
	s.publish(ctx, events.DeviceDeleted, result)
	return result, nil
}

// ListPositions returns every report ordered by id.
func (s *Service) ListPositions(ctx context.Context) ([]position.Report, error) {
	return s.positions.ListAll(ctx)
}

// GetLatestPosition returns the newest report of device deviceID.
//
// Returns device.ErrDeviceNotFound when the device is not registered and
// position.ErrNoReports when it is registered but has never reported.
func (s *Service) GetLatestPosition(ctx context.Context, deviceID int64) (*position.Report, error) {
	report, err := s.positions.LatestFor(ctx, deviceID)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, position.ErrNoReports) {
		return nil, err
	}

	exists, probeErr := s.devices.DeviceExists(ctx, deviceID)
	if probeErr != nil {
		return nil, probeErr
	}
	if !exists {
		return nil, device.ErrDeviceNotFound
	}
	return nil, err
}

// GetPositionHistory returns the reports of deviceID inside window, newest
// first. Unknown and deleted devices yield an empty history.
func (s *Service) GetPositionHistory(ctx context.Context, deviceID int64, window position.Window) ([]position.Report, error) {
	return s.positions.HistoryFor(ctx, deviceID, window)
}

// RecordPosition validates in, checks the device exists and appends the
// report.
//
// The foreign key in the store still rejects a device deleted between the
// probe and the insert, surfacing as position.ErrDeviceNotFound.
func (s *Service) RecordPosition(ctx context.Context, in position.Input) (*position.Report, error) {
	draft, err := position.ParseCreate(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.devices.DeviceExists(ctx, draft.DeviceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, device.ErrDeviceNotFound
	}

	report, err := s.positions.Append(ctx, in)
	if err != nil {
		return nil, err
	}

	s.record(ctx, audit.ActionCreate, audit.EntityPosition, report.ID, map[string]any{
		"device_id":   report.DeviceID,
		"reported_at": report.ReportedAt,
	})
	s.publish(ctx, events.PositionRecorded, report)
	s.mirror(report)
	return report, nil
}

// DeletePosition removes report id, or returns position.ErrPositionNotFound.
func (s *Service) DeletePosition(ctx context.Context, id int64) error {
	if err := s.positions.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, audit.ActionDelete, audit.EntityPosition, id, nil)
	s.publish(ctx, events.PositionDeleted, map[string]int64{"id": id})
	return nil
}
