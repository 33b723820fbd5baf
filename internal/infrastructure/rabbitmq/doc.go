// Package rabbitmq connects the service to a RabbitMQ broker and publishes
// integration events onto a durable fanout exchange.
//
// Topology declared on Connect:
//
//	exchange  <cfg.Exchange>  fanout, durable
//	queue     <cfg.Queue>     durable, bound to the exchange
//
// The queue keeps events for consumers that start after the service. Its name
// may be left empty when a downstream system declares its own bindings.
package rabbitmq
