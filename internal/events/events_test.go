package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGoChannelPubSub_RoundTrip(t *testing.T) {
	pubSub := NewGoChannelPubSub(discardLogger())
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	topic := UserMetricsTopic(42)
	messages, err := pubSub.Subscribe(ctx, topic)
	require.NoError(t, err)

	sent := NewEvent(TypeMetricsUpdated, MetricsPayload{XP: 12500, Streak: 13})
	require.NoError(t, pubSub.Publish(context.Background(), topic, sent))

	select {
	case msg := <-messages:
		msg.Ack()

		var got Event
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, TypeMetricsUpdated, got.Type)
		assert.Equal(t, "user-service", got.Source)

		payload, err := json.Marshal(got.Data)
		require.NoError(t, err)
		var metrics MetricsPayload
		require.NoError(t, json.Unmarshal(payload, &metrics))
		assert.Equal(t, MetricsPayload{XP: 12500, Streak: 13}, metrics)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestUserMetricsTopic_IsPerUser(t *testing.T) {
	assert.Equal(t, "user-metrics.1", UserMetricsTopic(1))
	assert.NotEqual(t, UserMetricsTopic(1), UserMetricsTopic(2))
}

func TestFanOutPublisher_DeliversToAllTargets(t *testing.T) {
	first := NewMockEventPublisher(discardLogger())
	second := NewMockEventPublisher(discardLogger())
	fanOut := NewFanOutPublisher(first, second)

	event := NewEvent(TypeMetricsUpdated, MetricsPayload{XP: 12500, Streak: 13})
	require.NoError(t, fanOut.Publish(context.Background(), "topic", event))

	assert.Len(t, first.GetPublishedEvents(), 1)
	assert.Len(t, second.GetPublishedEvents(), 1)
	require.NoError(t, fanOut.Close())
}
