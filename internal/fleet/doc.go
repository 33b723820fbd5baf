// Package fleet is the request-level facade over the device registry and the
// position log.
//
// Every surface (HTTP, MQTT ingest, seeding) calls Service. It sequences the
// registry and the log, applies the existence rules that span both, and after
// a successful mutation fires the side effects:
//
//  1. audit entry (audit.Recorder)
//  2. integration event (events.Publisher)
//  3. telemetry mirror, positions only (influxdb.Client)
//
// Side-effect failures are logged at Warn and never fail or undo the
// mutation. The store stays the only source of truth.
package fleet
