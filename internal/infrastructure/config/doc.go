// Package config loads the service configuration.
//
// Layering, lowest first: built-in defaults, an optional .env file (never
// overriding variables already set), the YAML file, then FLEETGPS_*
// variables. Validate reports every problem in one error.
//
// Keep secrets such as the MQTT password, RabbitMQ URL and InfluxDB token
// in the environment rather than the YAML file.
package config
