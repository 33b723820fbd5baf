// Package influxdb mirrors recorded position reports into InfluxDB v2.
//
// SQLite stays the system of record; InfluxDB holds a time-series copy for
// dashboards. Each report becomes one point:
//
//	measurement  position
//	tags         device_id, engine_state
//	fields       latitude, longitude, speed, heading
//	time         reported_at
//
// Writes go through the batched non-blocking write API. Their errors arrive
// asynchronously at the SetOnError hook.
package influxdb
