// Package events publishes integration events after successful registry and
// position-log mutations.
//
// Events are notifications, not the system of record: a failed publish is
// reported to the caller, which logs it and carries on.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names an event. It doubles as the MQTT topic suffix and the AMQP
// routing key.
type Type string

// Event types.
const (
	DeviceCreated    Type = "device.created"
	DeviceUpdated    Type = "device.updated"
	DeviceDeleted    Type = "device.deleted"
	PositionRecorded Type = "position.recorded"
	PositionDeleted  Type = "position.deleted"
)

// Event is the envelope published on every transport.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New builds an event with a fresh id, stamped now in UTC.
func New(t Type, source string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Marshal encodes the event envelope.
func (e Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s event: %w", e.Type, err)
	}
	return data, nil
}

// Publisher delivers events to one transport.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop discards every event. Used when no transport is enabled.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to several publishers.
type Multi []Publisher

// Publish delivers to every publisher even when one fails, and joins the
// failures.
func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine returns a single Publisher for the given ones, skipping nils.
func Combine(publishers ...Publisher) Publisher {
	var m Multi
	for _, p := range publishers {
		if p != nil {
			m = append(m, p)
		}
	}
	switch len(m) {
	case 0:
		return Noop{}
	case 1:
		return m[0]
	default:
		return m
	}
}
