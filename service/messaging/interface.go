package messaging

import (
	"context"
)

// Vendor represents the name of a queue implementation
type Vendor string

const (
	// VendorMemory is the in-process channel-backed queue
	VendorMemory Vendor = "memory"
	// VendorFs is the filesystem-backed queue used to persist a journal
	VendorFs Vendor = "fs"
)

// Queue represents an abstract message queue for any payload type. Session
// output lines and status events both travel through this contract.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
