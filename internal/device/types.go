package device

import (
	"time"
)

// Provider is the GPS service vendor that supplies a device's data feed.
type Provider string

// Supported providers.
const (
	ProviderVista    Provider = "Vista"
	ProviderEntel    Provider = "Entel"
	ProviderGeotab   Provider = "Geotab"
	ProviderCopiloto Provider = "Copiloto"
)

// AllProviders lists every provider in declaration order.
var AllProviders = []Provider{ProviderVista, ProviderEntel, ProviderGeotab, ProviderCopiloto}

// Status is the operational status of a device.
type Status string

// Device statuses.
const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// AllStatuses lists every status in declaration order.
var AllStatuses = []Status{StatusActive, StatusInactive, StatusMaintenance}

// Device is a GPS unit registered to a vehicle.
type Device struct {
	ID             int64     `json:"id"`
	ExternalCode   string    `json:"external_code"`
	VehicleLabel   string    `json:"vehicle_label"`
	VehicleKind    string    `json:"vehicle_kind"`
	Provider       Provider  `json:"provider"`
	Status         Status    `json:"status"`
	LastReportedAt time.Time `json:"last_reported_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Input carries the caller-supplied device fields as decoded from JSON.
// A nil field was not supplied.
type Input struct {
	ExternalCode   *string `json:"external_code,omitempty"`
	VehicleLabel   *string `json:"vehicle_label,omitempty"`
	VehicleKind    *string `json:"vehicle_kind,omitempty"`
	Provider       *string `json:"provider,omitempty"`
	Status         *string `json:"status,omitempty"`
	LastReportedAt *string `json:"last_reported_at,omitempty"`
}

// Draft is a validated create request.
type Draft struct {
	ExternalCode   string
	VehicleLabel   string
	VehicleKind    string
	Provider       Provider
	Status         Status
	LastReportedAt time.Time
}

// Device builds the unsaved device described by the draft.
func (d Draft) Device() *Device {
	return &Device{
		ExternalCode:   d.ExternalCode,
		VehicleLabel:   d.VehicleLabel,
		VehicleKind:    d.VehicleKind,
		Provider:       d.Provider,
		Status:         d.Status,
		LastReportedAt: d.LastReportedAt,
	}
}

// Patch is a validated partial update. Only non-nil fields are applied.
type Patch struct {
	ExternalCode   *string
	VehicleLabel   *string
	VehicleKind    *string
	Provider       *Provider
	Status         *Status
	LastReportedAt *time.Time
}

// Apply copies the supplied fields onto d.
func (p Patch) Apply(d *Device) {
	if p.ExternalCode != nil {
		d.ExternalCode = *p.ExternalCode
	}
	if p.VehicleLabel != nil {
		d.VehicleLabel = *p.VehicleLabel
	}
	if p.VehicleKind != nil {
		d.VehicleKind = *p.VehicleKind
	}
	if p.Provider != nil {
		d.Provider = *p.Provider
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.LastReportedAt != nil {
		d.LastReportedAt = *p.LastReportedAt
	}
}

// Fields returns the JSON names of the supplied fields, in declaration order.
func (p Patch) Fields() []string {
	var fields []string
	if p.ExternalCode != nil {
		fields = append(fields, "external_code")
	}
	if p.VehicleLabel != nil {
		fields = append(fields, "vehicle_label")
	}
	if p.VehicleKind != nil {
		fields = append(fields, "vehicle_kind")
	}
	if p.Provider != nil {
		fields = append(fields, "provider")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.LastReportedAt != nil {
		fields = append(fields, "last_reported_at")
	}
	return fields
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Filter narrows ListDevices. The zero value matches every device.
type Filter struct {
	Provider *Provider
}

// DeleteResult describes a completed device deletion.
type DeleteResult struct {
	ID               int64 `json:"id"`
	PositionsRemoved int64 `json:"positions_removed"`
}
