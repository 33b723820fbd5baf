package mqtt

import (
	"strconv"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "fleetgps"

// Topics builds the Fleet GPS topic hierarchy under a deployment prefix:
//
//	{prefix}/devices/{device_id}/positions   device uplinks (ingest)
//	{prefix}/events/{event_type}             integration events
//	{prefix}/system/status                   retained online/offline status
//
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Surrounding slashes are
// trimmed and an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the root segment(s) of every topic.
func (t Topics) Prefix() string {
	return t.root()
}

func (t Topics) root() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// DevicePositions returns the uplink topic for one device.
//
// Example: fleetgps/devices/3/positions
func (t Topics) DevicePositions(deviceID int64) string {
	return t.root() + "/devices/" + strconv.FormatInt(deviceID, 10) + "/positions"
}

// AllDevicePositions returns the wildcard subscription for every device uplink.
//
// Pattern: fleetgps/devices/+/positions
func (t Topics) AllDevicePositions() string {
	return t.root() + "/devices/+/positions"
}

// ParseDevicePositions extracts the device segment from an uplink topic.
// ok is false when topic is not an uplink topic under this prefix. The
// segment is returned raw so callers can report a malformed id.
func (t Topics) ParseDevicePositions(topic string) (segment string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.root()+"/devices/")
	if !found {
		return "", false
	}
	segment, found = strings.CutSuffix(rest, "/positions")
	if !found || segment == "" || strings.Contains(segment, "/") {
		return "", false
	}
	return segment, true
}

// Event returns the topic an integration event of eventType is published to.
//
// Example: fleetgps/events/device.created
func (t Topics) Event(eventType string) string {
	return t.root() + "/events/" + eventType
}

// AllEvents returns the wildcard subscription for every event.
//
// Pattern: fleetgps/events/+
func (t Topics) AllEvents() string {
	return t.root() + "/events/+"
}

// SystemStatus returns the retained service status topic, also used for
// the Last Will and Testament.
func (t Topics) SystemStatus() string {
	return t.root() + "/system/status"
}

// All returns a pattern matching every topic under the prefix.
// Use with caution - this receives ALL traffic.
func (t Topics) All() string {
	return t.root() + "/#"
}
