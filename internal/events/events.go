package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published by this service.
const (
	TypeMetricsUpdated = "user.metrics_updated"
)

const (
	eventSource  = "user-service"
	eventVersion = "1.0"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around the given payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// MetricsPayload is pushed to a user's real-time topic after each activity
// completion.
type MetricsPayload struct {
	XP     int `json:"xp"`
	Streak int `json:"streak"`
}

// UserMetricsTopic names the per-user topic carrying metrics pushes.
func UserMetricsTopic(userID uint) string {
	return fmt.Sprintf("user-metrics.%d", userID)
}

// EventPublisher publishes events to a topic. Delivery is fire-and-forget:
// no acknowledgement, no replay of missed messages.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}
