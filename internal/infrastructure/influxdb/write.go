package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementPosition is the measurement every recorded position is written to.
const MeasurementPosition = "position"

// PositionSample is one recorded position report in telemetry form.
type PositionSample struct {
	DeviceID    int64
	EngineState string
	Latitude    float64
	Longitude   float64
	Speed       float64
	Heading     float64
	ReportedAt  time.Time
}

// WritePosition queues a position point stamped with the report's own
// observation time, so late uplinks land where they belong in the series.
//
// The write is non-blocking. Failures surface through SetOnError.
func (c *Client) WritePosition(s PositionSample) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(positionPoint(s))
}

// positionPoint builds the line-protocol point for a sample.
// device_id and engine_state are tags; the coordinates and motion are fields.
func positionPoint(s PositionSample) *write.Point {
	return write.NewPoint(
		MeasurementPosition,
		map[string]string{
			"device_id":    strconv.FormatInt(s.DeviceID, 10),
			"engine_state": s.EngineState,
		},
		map[string]any{
			"latitude":  s.Latitude,
			"longitude": s.Longitude,
			"speed":     s.Speed,
			"heading":   s.Heading,
		},
		s.ReportedAt,
	)
}
