package device

import "errors"

// Field-level input problems are *validation.Error values, not these.
var (
	ErrDeviceNotFound     = errors.New("device: not found")
	ErrExternalCodeExists = errors.New("device: external code already registered")
)
