package events

import (
	"context"
	"fmt"

	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/mqtt"
)

// MQTTClient is the subset of *mqtt.Client used for publishing events.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Topics() mqtt.Topics
	QoS() byte
}

// MQTTPublisher publishes events to {prefix}/events/{type}, not retained.
type MQTTPublisher struct {
	client MQTTClient
}

// NewMQTTPublisher creates a publisher over a connected MQTT client.
func NewMQTTPublisher(client MQTTClient) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(_ context.Context, e Event) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}
	topic := p.client.Topics().Event(string(e.Type))
	if err := p.client.Publish(topic, data, p.client.QoS(), false); err != nil {
		return fmt.Errorf("publishing %s to mqtt: %w", e.Type, err)
	}
	return nil
}
