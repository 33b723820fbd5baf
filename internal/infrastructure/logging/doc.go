// Package logging configures the service-wide slog logger.
//
// Output is JSON or text on stdout, stderr, or a lumberjack-rotated file.
// Every record carries service and version; subsystems add their own
// component attribute:
//
//	log := logging.New(cfg.Logging, version)
//	defer log.Close()
//	ingestLog := log.Component("ingest")
//
// Never log secrets such as the MQTT password, the RabbitMQ URL or the
// InfluxDB token.
package logging
