package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeChannel records topology calls and can fail at a chosen step.
type fakeChannel struct {
	calls  []string
	failAt string
}

func (f *fakeChannel) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failAt == name {
		return errors.New(name + " refused")
	}
	return nil
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if kind != exchangeKind || !durable {
		return errors.New("unexpected exchange options")
	}
	return f.step("exchange:" + name)
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	return amqp.Queue{Name: name}, f.step("queue:" + name)
}

func (f *fakeChannel) QueueBind(name, _, exchange string, _ bool, _ amqp.Table) error {
	return f.step("bind:" + name + "->" + exchange)
}

func TestDeclareTopology(t *testing.T) {
	tests := []struct {
		name    string
		queue   string
		failAt  string
		want    []string
		wantErr bool
	}{
		{
			name:  "exchange and bound queue",
			queue: "fleet.audit",
			want:  []string{"exchange:fleet.events", "queue:fleet.audit", "bind:fleet.audit->fleet.events"},
		},
		{
			name: "exchange only",
			want: []string{"exchange:fleet.events"},
		},
		{
			name:    "exchange failure stops setup",
			queue:   "fleet.audit",
			failAt:  "exchange:fleet.events",
			want:    []string{"exchange:fleet.events"},
			wantErr: true,
		},
		{
			name:    "bind failure",
			queue:   "fleet.audit",
			failAt:  "bind:fleet.audit->fleet.events",
			want:    []string{"exchange:fleet.events", "queue:fleet.audit", "bind:fleet.audit->fleet.events"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &fakeChannel{failAt: tt.failAt}
			err := declareTopology(ch, "fleet.events", tt.queue)
			if (err != nil) != tt.wantErr {
				t.Fatalf("declareTopology() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(ch.calls) != len(tt.want) {
				t.Fatalf("calls = %v, want %v", ch.calls, tt.want)
			}
			for i := range tt.want {
				if ch.calls[i] != tt.want[i] {
					t.Errorf("call[%d] = %q, want %q", i, ch.calls[i], tt.want[i])
				}
			}
		})
	}
}

func TestConnection_NotConnected(t *testing.T) {
	var c *Connection
	ctx := context.Background()

	if err := c.Publish(ctx, "device.created", []byte(`{}`)); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if err := c.HealthCheck(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestHealthCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Connection{}).HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}
