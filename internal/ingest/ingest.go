// Package ingest turns MQTT position uplinks into recorded positions.
//
// Devices, or the provider gateways in front of them, publish a position JSON
// body to {prefix}/devices/{id}/positions. The topic segment names the device
// and fills device_id when the payload leaves it out.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/fleet-gps-core/internal/audit"
	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/fleet-gps-core/internal/position"
	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

// handleTimeout bounds the store work done for one uplink.
const handleTimeout = 5 * time.Second

// ErrAlreadyStarted is returned by Start when the subscription is active.
var ErrAlreadyStarted = errors.New("ingest: already started")

// Subscriber is the subset of *mqtt.Client the ingestor needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Topics() mqtt.Topics
	QoS() byte
}

// Recorder records a validated position. Implemented by *fleet.Service.
type Recorder interface {
	RecordPosition(ctx context.Context, in position.Input) (*position.Report, error)
}

// Logger is the logging interface used by the ingestor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Stats counts processed uplinks.
type Stats struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

// Ingestor subscribes to device position topics and records each uplink.
//
// Thread Safety: the handler runs on paho goroutines; counters are atomic.
type Ingestor struct {
	sub      Subscriber
	recorder Recorder
	logger   Logger

	mu     sync.Mutex
	ctx    context.Context
	topic  string
	active bool

	accepted atomic.Uint64
	rejected atomic.Uint64
}

// New creates an ingestor. logger may be nil.
func New(sub Subscriber, recorder Recorder, logger Logger) *Ingestor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Ingestor{sub: sub, recorder: recorder, logger: logger}
}

// Start subscribes to {prefix}/devices/+/positions.
//
// ctx scopes every record call made by the handler; cancel it (or call Stop)
// to stop processing.
func (i *Ingestor) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.active {
		return ErrAlreadyStarted
	}

	topic := i.sub.Topics().AllDevicePositions()
	i.ctx = ctx
	if err := i.sub.Subscribe(topic, i.sub.QoS(), i.handle); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	i.topic = topic
	i.active = true

	i.logger.Info("position ingest started", "topic", topic)
	return nil
}

// Stop removes the subscription. Safe to call when not started.
func (i *Ingestor) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.active {
		return nil
	}
	i.active = false
	if err := i.sub.Unsubscribe(i.topic); err != nil {
		return fmt.Errorf("unsubscribing from %s: %w", i.topic, err)
	}
	return nil
}

// Stats returns the uplink counters.
func (i *Ingestor) Stats() Stats {
	return Stats{Accepted: i.accepted.Load(), Rejected: i.rejected.Load()}
}

// handle is the MQTT message handler. Returned errors are logged by the
// MQTT client.
func (i *Ingestor) handle(topic string, payload []byte) error {
	i.mu.Lock()
	base := i.ctx
	i.mu.Unlock()
	if base == nil {
		base = context.Background()
	}

	report, err := i.process(base, topic, payload)
	if err != nil {
		i.rejected.Add(1)
		return err
	}

	i.accepted.Add(1)
	i.logger.Debug("position ingested",
		"topic", topic,
		"device_id", report.DeviceID,
		"position_id", report.ID,
	)
	return nil
}

func (i *Ingestor) process(base context.Context, topic string, payload []byte) (*position.Report, error) {
	segment, ok := i.sub.Topics().ParseDevicePositions(topic)
	if !ok {
		return nil, fmt.Errorf("ingest: unexpected topic %q", topic)
	}

	in, err := position.DecodeInput(payload)
	if err != nil {
		return nil, err
	}
	if err := bindDeviceID(&in, segment); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(audit.WithSource(base, audit.SourceMQTT), handleTimeout)
	defer cancel()

	return i.recorder.RecordPosition(ctx, in)
}

// bindDeviceID reconciles the topic segment with the payload's device_id.
func bindDeviceID(in *position.Input, segment string) error {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return violation("device_id", fmt.Sprintf("topic segment %q is not a device id", segment))
	}

	if in.DeviceID == nil {
		in.DeviceID = &id
		return nil
	}
	if *in.DeviceID != id {
		return violation("device_id", fmt.Sprintf("does not match topic device %d", id))
	}
	return nil
}

func violation(field, message string) error {
	return &validation.Error{Violations: []validation.Violation{{Field: field, Message: message}}}
}
