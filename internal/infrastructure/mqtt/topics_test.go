package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := NewTopics("acme")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"DevicePositions", topics.DevicePositions(3), "acme/devices/3/positions"},
		{"AllDevicePositions", topics.AllDevicePositions(), "acme/devices/+/positions"},
		{"Event", topics.Event("device.created"), "acme/events/device.created"},
		{"AllEvents", topics.AllEvents(), "acme/events/+"},
		{"SystemStatus", topics.SystemStatus(), "acme/system/status"},
		{"All", topics.All(), "acme/#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestNewTopics_Prefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", DefaultTopicPrefix},
		{"/", DefaultTopicPrefix},
		{"/tenant/fleet/", "tenant/fleet"},
		{"fleetgps", "fleetgps"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NewTopics(tt.input).Prefix(); got != tt.want {
				t.Errorf("Prefix() = %q, want %q", got, tt.want)
			}
		})
	}

	var zero Topics
	if got := zero.SystemStatus(); got != DefaultTopicPrefix+"/system/status" {
		t.Errorf("zero Topics SystemStatus() = %q", got)
	}
}

func TestParseDevicePositions(t *testing.T) {
	topics := NewTopics("fleetgps")

	tests := []struct {
		topic   string
		segment string
		ok      bool
	}{
		{"fleetgps/devices/12/positions", "12", true},
		{"fleetgps/devices/abc/positions", "abc", true},
		{"fleetgps/devices//positions", "", false},
		{"fleetgps/devices/1/2/positions", "", false},
		{"other/devices/12/positions", "", false},
		{"fleetgps/devices/12/status", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			segment, ok := topics.ParseDevicePositions(tt.topic)
			if ok != tt.ok || segment != tt.segment {
				t.Errorf("ParseDevicePositions() = (%q, %v), want (%q, %v)", segment, ok, tt.segment, tt.ok)
			}
		})
	}
}
