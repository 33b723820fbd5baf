package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nerrad567/fleet-gps-core/internal/infrastructure/config"
)

const (
	exchangeKind    = "fanout"
	contentTypeJSON = "application/json"
)

// Connection owns one AMQP connection and one publishing channel.
//
// amqp.Channel is not safe for concurrent publishes, so Publish serialises
// access with a mutex.
type Connection struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// declarer is the subset of *amqp.Channel used to set up topology.
type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Connect dials the broker, opens a channel and declares the exchange and
// queue named in cfg.
//
// Parameters:
//   - cfg: RabbitMQ configuration from config.yaml
//
// Returns:
//   - *Connection: ready for Publish
//   - error: wrapped ErrConnectionFailed on any setup failure
func Connect(cfg config.RabbitMQConfig) (*Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %w", ErrConnectionFailed, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("%w: opening channel: %w", ErrConnectionFailed, err)
	}

	if err := declareTopology(ch, cfg.Exchange, cfg.Queue); err != nil {
		ch.Close()   //nolint:errcheck // best-effort cleanup
		conn.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Connection{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// declareTopology declares the fanout exchange and, when queue is set, a
// durable queue bound to it.
func declareTopology(ch declarer, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange %q: %w", exchange, err)
	}
	if queue == "" {
		return nil
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %q: %w", queue, err)
	}
	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue %q: %w", queue, err)
	}
	return nil
}

// Exchange returns the exchange events are published to.
func (c *Connection) Exchange() string {
	return c.exchange
}

// Publish sends a persistent JSON message to the exchange.
// The routing key is carried for consumers but ignored by the fanout.
func (c *Connection) Publish(ctx context.Context, routingKey string, body []byte) error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return ErrNotConnected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.ch.PublishWithContext(ctx, c.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// HealthCheck reports whether the connection is still open.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq health check: %w", err)
	}
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return ErrNotConnected
	}
	return nil
}

// Close closes the channel and the connection. Safe on a nil receiver.
func (c *Connection) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	if c.ch != nil {
		c.ch.Close() //nolint:errcheck // connection close below reports the failure
	}
	if err := c.conn.Close(); err != nil && err != amqp.ErrClosed {
		return fmt.Errorf("closing rabbitmq connection: %w", err)
	}
	return nil
}
