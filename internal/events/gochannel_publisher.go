package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelPubSub is the in-process pub/sub used when no external broker is
// configured. Subscribers that are not connected when a message is published
// simply never see it, which matches the fire-and-forget channel contract.
type GoChannelPubSub struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelPubSub(logger *slog.Logger) *GoChannelPubSub {
	return &GoChannelPubSub{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewSlogLogger(logger),
		),
	}
}

// Publish marshals the event and delivers it to current subscribers.
func (p *GoChannelPubSub) Publish(ctx context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of messages for the given topic; it is closed
// when ctx is cancelled.
func (p *GoChannelPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, topic)
}

func (p *GoChannelPubSub) Close() error {
	return p.pubSub.Close()
}
