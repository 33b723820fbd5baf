package position

import "time"

// EngineState records whether the engine was running at report time.
type EngineState string

// Engine states.
const (
	EngineOn  EngineState = "on"
	EngineOff EngineState = "off"
)

// AllEngineStates lists every engine state in declaration order.
var AllEngineStates = []EngineState{EngineOn, EngineOff}

// Report is one stored position observation.
type Report struct {
	ID            int64       `json:"id"`
	DeviceID      int64       `json:"device_id"`
	Latitude      float64     `json:"latitude"`
	Longitude     float64     `json:"longitude"`
	Speed         float64     `json:"speed"`
	Heading       float64     `json:"heading"`
	ReportedAt    time.Time   `json:"reported_at"`
	LocationLabel string      `json:"location_label"`
	EngineState   EngineState `json:"engine_state"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Input carries the caller-supplied report fields as decoded from JSON.
// A nil field was not supplied.
type Input struct {
	DeviceID      *int64   `json:"device_id,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Speed         *float64 `json:"speed,omitempty"`
	Heading       *float64 `json:"heading,omitempty"`
	ReportedAt    *string  `json:"reported_at,omitempty"`
	LocationLabel *string  `json:"location_label,omitempty"`
	EngineState   *string  `json:"engine_state,omitempty"`
}

// Draft is a validated report ready to append.
type Draft struct {
	DeviceID      int64
	Latitude      float64
	Longitude     float64
	Speed         float64
	Heading       float64
	ReportedAt    time.Time
	LocationLabel string
	EngineState   EngineState
}

// Report builds the unsaved report described by the draft.
func (d Draft) Report() *Report {
	return &Report{
		DeviceID:      d.DeviceID,
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		Speed:         d.Speed,
		Heading:       d.Heading,
		ReportedAt:    d.ReportedAt,
		LocationLabel: d.LocationLabel,
		EngineState:   d.EngineState,
	}
}

// Window bounds a history query. Nil bounds and a zero Limit mean unbounded.
type Window struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
