package rabbitmq

import "errors"

var (
	// ErrNotConnected is returned when the connection or channel is closed.
	ErrNotConnected = errors.New("rabbitmq: not connected")

	// ErrConnectionFailed is returned when dialling or topology setup fails.
	ErrConnectionFailed = errors.New("rabbitmq: connection failed")

	// ErrPublishFailed is returned when a publish is rejected.
	ErrPublishFailed = errors.New("rabbitmq: publish failed")
)
