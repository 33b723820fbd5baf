package device

import (
	_ "embed"
	"strings"

	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

//go:embed schema/device.json
var deviceSchemaSource string

var deviceSchema = validation.MustCompileSchema("device.json", deviceSchemaSource)

// DecodeInput checks a JSON body against the device schema and decodes it.
// Unknown properties and wrong JSON types are reported as violations.
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := deviceSchema.Decode(data, &in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ParseCreate validates a create request. Every field is required.
// On failure the error is a *validation.Error listing every violation.
func ParseCreate(in Input) (Draft, error) {
	c := validation.NewCollector(validation.Create)

	var d Draft
	d.ExternalCode, _ = c.String("external_code", in.ExternalCode)
	d.VehicleLabel, _ = c.String("vehicle_label", in.VehicleLabel)
	d.VehicleKind, _ = c.String("vehicle_kind", in.VehicleKind)
	d.Provider, _ = validation.Enum(c, "provider", in.Provider, AllProviders)
	d.Status, _ = validation.Enum(c, "status", in.Status, AllStatuses)
	d.LastReportedAt, _ = c.Timestamp("last_reported_at", in.LastReportedAt)

	if err := c.Err(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// ParsePatch validates a partial update. Absent fields are left unchanged,
// present ones must pass the same rules as on create, and at least one field
// must be supplied.
func ParsePatch(in Input) (Patch, error) {
	c := validation.NewCollector(validation.Update)

	var p Patch
	if v, ok := c.String("external_code", in.ExternalCode); ok {
		p.ExternalCode = &v
	}
	if v, ok := c.String("vehicle_label", in.VehicleLabel); ok {
		p.VehicleLabel = &v
	}
	if v, ok := c.String("vehicle_kind", in.VehicleKind); ok {
		p.VehicleKind = &v
	}
	if v, ok := validation.Enum(c, "provider", in.Provider, AllProviders); ok {
		p.Provider = &v
	}
	if v, ok := validation.Enum(c, "status", in.Status, AllStatuses); ok {
		p.Status = &v
	}
	if v, ok := c.Timestamp("last_reported_at", in.LastReportedAt); ok {
		p.LastReportedAt = &v
	}

	if err := c.Err(); err != nil {
		return Patch{}, err
	}
	if p.IsEmpty() {
		c.Add("body", "must supply at least one field")
		return Patch{}, c.Err()
	}
	return p, nil
}

// ParseProvider validates a provider name taken from a query string or path.
func ParseProvider(name string) (Provider, error) {
	c := validation.NewCollector(validation.Create)
	p, _ := validation.Enum(c, "provider", &name, AllProviders)
	if err := c.Err(); err != nil {
		return "", err
	}
	return p, nil
}

// ParseFilter builds a Filter from an optional provider name. A blank name
// matches every provider.
func ParseFilter(provider string) (Filter, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return Filter{}, nil
	}
	p, err := ParseProvider(provider)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Provider: &p}, nil
}
