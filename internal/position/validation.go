package position

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

// MaxHistoryLimit caps the number of reports one history query returns when
// the caller asks for a limit.
const MaxHistoryLimit = 1000

//go:embed schema/position.json
var positionSchemaSource string

var positionSchema = validation.MustCompileSchema("position.json", positionSchemaSource)

// DecodeInput checks a JSON body against the position schema and decodes it.
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := positionSchema.Decode(data, &in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ParseCreate validates a new report. Every field is required, numbers must
// be finite and engine_state must be "on" or "off".
func ParseCreate(in Input) (Draft, error) {
	c := validation.NewCollector(validation.Create)

	var d Draft
	d.DeviceID, _ = c.ID("device_id", in.DeviceID)
	d.Latitude, _ = c.Number("latitude", in.Latitude)
	d.Longitude, _ = c.Number("longitude", in.Longitude)
	d.Speed, _ = c.Number("speed", in.Speed)
	d.Heading, _ = c.Number("heading", in.Heading)
	d.ReportedAt, _ = c.Timestamp("reported_at", in.ReportedAt)
	d.LocationLabel, _ = c.String("location_label", in.LocationLabel)
	d.EngineState, _ = validation.Enum(c, "engine_state", in.EngineState, AllEngineStates)

	if err := c.Err(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// ParseWindow builds a history window from optional query-string values.
// Blank values leave that bound open.
func ParseWindow(from, to, limit string) (Window, error) {
	c := validation.NewCollector(validation.Update)

	var w Window
	if from = strings.TrimSpace(from); from != "" {
		if t, ok := c.Timestamp("from", &from); ok {
			w.From = &t
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if t, ok := c.Timestamp("to", &to); ok {
			w.To = &t
		}
	}
	if limit = strings.TrimSpace(limit); limit != "" {
		n, err := strconv.Atoi(limit)
		switch {
		case err != nil || n < 1:
			c.Add("limit", "must be a positive integer")
		case n > MaxHistoryLimit:
			w.Limit = MaxHistoryLimit
		default:
			w.Limit = n
		}
	}
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		c.Add("from", "must not be after to")
	}

	if err := c.Err(); err != nil {
		return Window{}, err
	}
	return w, nil
}
