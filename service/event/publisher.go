package event

import (
	"context"

	"github.com/viant/plexor/internal/clock"
	"github.com/viant/plexor/service/messaging"
)

// Publisher emits typed events onto its queue and mirrors each one onto the
// service firehose, so untyped listeners observe the full stream.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	firehose messaging.Queue[Event[any]]
}

// NewPublisher creates a publisher over the supplied queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps the event and enqueues it. The firehose copy is best
// effort; the typed queue is authoritative.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.firehose != nil {
		_ = p.firehose.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		})
	}
	return p.queue.Publish(ctx, event)
}

// Consume blocks for the next event and settles it on the queue.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	message, err := p.queue.Consume(ctx)
	if err != nil || message == nil {
		return nil, err
	}
	if err = message.Ack(); err != nil {
		return nil, err
	}
	return message.T(), nil
}
