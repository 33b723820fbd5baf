package device

import (
	"context"
	"fmt"
)

// Logger receives one line per successful mutation.
type Logger interface {
	Info(msg string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Info(string, ...any) {}

// Registry validates device requests and applies them to a Repository. It
// keeps no state besides the repository, so it is as concurrency-safe as
// the repository is.
type Registry struct {
	repo   Repository
	logger Logger
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo, logger: discardLogger{}}
}

// SetLogger replaces the logger. A nil logger silences the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = discardLogger{}
	}
	r.logger = logger
}

// ListDevices returns the devices matching filter, ordered by id.
func (r *Registry) ListDevices(ctx context.Context, filter Filter) ([]Device, error) {
	return r.repo.List(ctx, filter)
}

// GetDevice returns device id or ErrDeviceNotFound.
func (r *Registry) GetDevice(ctx context.Context, id int64) (*Device, error) {
	return r.repo.GetByID(ctx, id)
}

// CreateDevice stores a new device. Invalid input yields a *validation.Error
// and never reaches the repository; a taken external code yields
// ErrExternalCodeExists.
func (r *Registry) CreateDevice(ctx context.Context, in Input) (*Device, error) {
	draft, err := ParseCreate(in)
	if err != nil {
		return nil, err
	}

	device := draft.Device()
	if err := r.repo.Create(ctx, device); err != nil {
		return nil, err
	}

	r.logger.Info("device created",
		"device_id", device.ID,
		"external_code", device.ExternalCode,
		"provider", device.Provider,
	)
	return device, nil
}

// UpdateDevice validates in as a partial update and applies the supplied
// fields to device id. Validation runs before the existence check.
func (r *Registry) UpdateDevice(ctx context.Context, id int64, in Input) (*Device, error) {
	patch, err := ParsePatch(in)
	if err != nil {
		return nil, err
	}

	device, err := r.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	r.logger.Info("device updated", "device_id", id, "fields", patch.Fields())
	return device, nil
}

// DeleteDevice removes device id together with its position reports.
func (r *Registry) DeleteDevice(ctx context.Context, id int64) (DeleteResult, error) {
	removed, err := r.repo.Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}

	r.logger.Info("device deleted", "device_id", id, "positions_removed", removed)
	return DeleteResult{ID: id, PositionsRemoved: removed}, nil
}

// DeviceExists reports whether device id is registered.
func (r *Registry) DeviceExists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("probing device %d: %w", id, err)
	}
	return exists, nil
}
