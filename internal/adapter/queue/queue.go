// Package queue carries evaluation events to downstream consumers
// (progress tracking, dataset collection). NATS is the default broker;
// RabbitMQ is available where NATS is not deployed.
package queue

// MessageQueue is the broker-agnostic pub/sub contract.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
