package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillpath/user-service/internal/events"
	"github.com/skillpath/user-service/internal/metrics"
	"github.com/skillpath/user-service/internal/repositories"
)

type metricsService struct {
	repo      repositories.Repository
	tracker   *metrics.Tracker
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewMetricsService(repo repositories.Repository, tracker *metrics.Tracker, publisher events.EventPublisher, logger *slog.Logger) MetricsService {
	return &metricsService{
		repo:      repo,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger,
	}
}

// CompleteActivity awards XP and streak for one finished activity and pushes
// the new pair to the user's topic. The push is fire-and-forget: a publish
// failure is logged but never fails the award.
func (s *metricsService) CompleteActivity(ctx context.Context, userID uint) (*ActivityResult, error) {
	if _, err := s.repo.User().GetByID(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	counters := s.tracker.Award(userID)

	event := events.NewEvent(events.TypeMetricsUpdated, events.MetricsPayload{
		XP:     counters.XP,
		Streak: counters.Streak,
	})
	topic := events.UserMetricsTopic(userID)

	// Detached from the request context so an early client disconnect does
	// not drop the push.
	go func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, topic, event); err != nil {
			s.logger.Error("Failed to publish metrics update", "user_id", userID, "topic", topic, "error", err)
		}
	}(context.WithoutCancel(ctx))

	s.logger.Info("Activity completed", "user_id", userID, "xp", counters.XP, "streak", counters.Streak)

	return &ActivityResult{XP: counters.XP, Streak: counters.Streak}, nil
}

// CurrentMetrics returns the user's counters without mutating them.
func (s *metricsService) CurrentMetrics(userID uint) (metrics.Counters, bool) {
	return s.tracker.Get(userID)
}
