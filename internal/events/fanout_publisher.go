package events

import (
	"context"
	"errors"
)

// FanOutPublisher delivers every event to all wrapped publishers. It lets the
// in-process stream and an external broker receive the same traffic.
type FanOutPublisher struct {
	publishers []EventPublisher
}

func NewFanOutPublisher(publishers ...EventPublisher) *FanOutPublisher {
	return &FanOutPublisher{publishers: publishers}
}

// Publish sends to every target; one target failing does not stop the others.
func (p *FanOutPublisher) Publish(ctx context.Context, topic string, event Event) error {
	var errs []error
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *FanOutPublisher) Close() error {
	var errs []error
	for _, pub := range p.publishers {
		if err := pub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
