package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/skillpath/user-service/internal/events"
	"github.com/skillpath/user-service/internal/metrics"
	"github.com/skillpath/user-service/internal/models"
)

func newMetricsFixture(t *testing.T) (MetricsService, *events.MockEventPublisher, uint) {
	t.Helper()
	repo := newMemoryRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewMetricsService(repo, metrics.NewTracker(), publisher, testLogger())

	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Roles:        datatypes.NewJSONSlice([]string{"user"}),
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return svc, publisher, user.ID
}

func TestCompleteActivity_AwardsAndPublishes(t *testing.T) {
	t.Parallel()
	svc, publisher, id := newMetricsFixture(t)

	first, err := svc.CompleteActivity(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, &ActivityResult{XP: 12500, Streak: 13}, first)

	second, err := svc.CompleteActivity(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, &ActivityResult{XP: 12550, Streak: 14}, second)

	// The push is detached from the request, so give it a moment to land.
	assert.Eventually(t, func() bool {
		return len(publisher.GetPublishedEvents()) == 2
	}, time.Second, 10*time.Millisecond)

	// The two pushes race each other, so assert on the set, not the order.
	var payloads []events.MetricsPayload
	for _, p := range publisher.GetPublishedEvents() {
		assert.Equal(t, events.UserMetricsTopic(id), p.Topic)
		assert.Equal(t, events.TypeMetricsUpdated, p.Event.Type)
		payload, ok := p.Event.Data.(events.MetricsPayload)
		require.True(t, ok)
		payloads = append(payloads, payload)
	}
	assert.ElementsMatch(t, []events.MetricsPayload{
		{XP: 12500, Streak: 13},
		{XP: 12550, Streak: 14},
	}, payloads)
}

func TestCompleteActivity_UnknownUser(t *testing.T) {
	t.Parallel()
	svc, publisher, id := newMetricsFixture(t)

	_, err := svc.CompleteActivity(context.Background(), id+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestCurrentMetrics(t *testing.T) {
	t.Parallel()
	svc, _, id := newMetricsFixture(t)

	_, ok := svc.CurrentMetrics(id)
	assert.False(t, ok)

	_, err := svc.CompleteActivity(context.Background(), id)
	require.NoError(t, err)

	got, ok := svc.CurrentMetrics(id)
	assert.True(t, ok)
	assert.Equal(t, metrics.Counters{XP: 12500, Streak: 13}, got)
}
