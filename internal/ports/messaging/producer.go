package messaging

import "context"

// Producer publishes check-out events for asynchronous processing.
type Producer interface {
	PublishCheckOut(ctx context.Context, event CheckOutEvent) error
}

// NopProducer drops events. Used when the notification pipeline is not
// configured (and by tests).
type NopProducer struct{}

func (NopProducer) PublishCheckOut(context.Context, CheckOutEvent) error { return nil }
