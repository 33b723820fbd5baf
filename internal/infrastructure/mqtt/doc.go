// Package mqtt connects Fleet GPS Core to an MQTT broker.
//
// Gateways publish position uplinks and the service publishes integration
// events plus a retained status document:
//
//	gateways       → {prefix}/devices/{id}/positions → fleetgps
//	fleetgps       → {prefix}/events/{type}           → dashboards, integrations
//	fleetgps (LWT) → {prefix}/system/status           (retained)
//
// The client reconnects on its own and replays its subscriptions after each
// reconnect. Handlers return errors instead of logging them; the client logs
// them and recovers handler panics.
//
// Use TLS (mqtt.broker.tls) outside local development.
package mqtt
