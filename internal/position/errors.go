package position

import "errors"

var (
	// ErrPositionNotFound is returned when a report ID does not exist.
	ErrPositionNotFound = errors.New("position: not found")

	// ErrNoReports is returned by LatestFor when the device has never reported.
	ErrNoReports = errors.New("position: no reports for device")

	// ErrDeviceNotFound is returned when a report references a device that
	// is not registered.
	ErrDeviceNotFound = errors.New("position: device not found")
)
