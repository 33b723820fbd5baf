// Package device provides the Device Registry for Fleet GPS Core.
//
// The registry is the catalogue of GPS units installed in fleet vehicles.
// Each device carries an external code that identifies the physical unit, a
// vehicle label and kind, the provider that supplies its data feed, an
// operational status and the last time it reported.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        Device Registry                       │
//	│                                                              │
//	│  ┌────────────────┐   ┌────────────────┐   ┌──────────────┐  │
//	│  │    Registry    │   │   Repository   │   │  Validation  │  │
//	│  │ (registry.go)  │──▶│(repository.go) │   │(validation.go│  │
//	│  │                │   │                │   │  + schema/)  │  │
//	│  │ • CRUD ops     │   │ • SQLite       │   │ • wire shape │  │
//	│  │ • logging      │   │ • transactions │   │ • field rules│  │
//	│  └────────────────┘   └────────────────┘   └──────────────┘  │
//	└──────────────────────────────────────────────────────────────┘
//	            │                    │
//	            ▼                    ▼
//	   fleet.Service          SQLite (devices table,
//	   (HTTP, MQTT)           cascades to positions)
//
// The registry keeps no in-memory copy of the devices. Every call goes to
// the store, which enforces external_code uniqueness with a UNIQUE
// constraint and removes a device's positions through ON DELETE CASCADE.
//
// # Key Types
//
//   - Device: a stored GPS unit
//   - Input: caller-supplied fields, pointer per field so absence is visible
//   - Draft: a fully validated create request
//   - Patch: a validated partial update; nil fields are left unchanged
//   - Provider, Status: closed enumerations, only produced by the parsers
//
// # Usage
//
//	repo := device.NewSQLiteRepository(db.DB)
//	registry := device.NewRegistry(repo)
//	registry.SetLogger(log)
//
//	dev, err := registry.CreateDevice(ctx, device.Input{
//	    ExternalCode: ptr("GPS001"),
//	    ...
//	})
//	if errors.Is(err, device.ErrExternalCodeExists) {
//	    // another device already uses this code
//	}
package device
