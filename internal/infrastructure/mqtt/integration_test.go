//go:build integration

package mqtt

import (
	"sync"
	"testing"
	"time"
)

// Broker round-trip tests. They need a running MQTT broker at 127.0.0.1:1883.
//
//	go test -tags=integration -count=1 ./internal/infrastructure/mqtt/...

func connectForTest(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID
	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect(%s) error = %v", clientID, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	client := connectForTest(t, "fleetgps-int-sub-track")
	topics := client.Topics()

	subs := []string{topics.AllDevicePositions(), topics.AllEvents(), topics.SystemStatus()}
	for _, topic := range subs {
		if err := client.Subscribe(topic, 1, func(string, []byte) error { return nil }); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}
	if client.SubscriptionCount() != len(subs) {
		t.Errorf("SubscriptionCount() = %d, want %d", client.SubscriptionCount(), len(subs))
	}

	if err := client.Unsubscribe(subs[0]); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(subs[0]) {
		t.Errorf("HasSubscription(%s) = true after unsubscribe", subs[0])
	}
}

func TestIntegration_PositionWildcardRoundtrip(t *testing.T) {
	pub := connectForTest(t, "fleetgps-int-pub")
	sub := connectForTest(t, "fleetgps-int-sub")
	topics := sub.Topics()

	type delivery struct {
		segment string
		payload string
	}
	received := make(chan delivery, 1)
	var once sync.Once

	err := sub.Subscribe(topics.AllDevicePositions(), 1, func(topic string, payload []byte) error {
		segment, _ := topics.ParseDevicePositions(topic)
		once.Do(func() { received <- delivery{segment, string(payload)} })
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	body := `{"latitude":-33.45,"longitude":-70.66}`
	if err := pub.Publish(topics.DevicePositions(7), []byte(body), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got.segment != "7" || got.payload != body {
			t.Errorf("received %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for message")
	}
}

func TestIntegration_HealthCheck(t *testing.T) {
	client := connectForTest(t, "fleetgps-int-health")
	client.SetLogger(&captureLogger{})
	if !client.IsConnected() {
		t.Fatal("IsConnected() = false after Connect")
	}
	if err := client.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
