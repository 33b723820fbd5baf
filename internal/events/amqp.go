package events

import (
	"context"
	"fmt"
)

// AMQPConnection is the subset of *rabbitmq.Connection used for events.
type AMQPConnection interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// AMQPPublisher publishes events to the RabbitMQ fanout exchange, using the
// event type as routing key.
type AMQPPublisher struct {
	conn AMQPConnection
}

// NewAMQPPublisher creates a publisher over an open RabbitMQ connection.
func NewAMQPPublisher(conn AMQPConnection) *AMQPPublisher {
	return &AMQPPublisher{conn: conn}
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}
	if err := p.conn.Publish(ctx, string(e.Type), data); err != nil {
		return fmt.Errorf("publishing %s to rabbitmq: %w", e.Type, err)
	}
	return nil
}
