package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skillpath/user-service/internal/auth"
	"github.com/skillpath/user-service/internal/config"
	"github.com/skillpath/user-service/internal/events"
	"github.com/skillpath/user-service/internal/metrics"
	"github.com/skillpath/user-service/internal/repositories"
	"github.com/skillpath/user-service/internal/validator"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	repo      repositories.Repository
	signer    *auth.Signer
	tracker   *metrics.Tracker
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	admin     config.AdminConfig

	authService    AuthService
	userService    UserService
	metricsService MetricsService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(repo repositories.Repository, signer *auth.Signer, tracker *metrics.Tracker, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, admin config.AdminConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		signer:    signer,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger,
		validator: v,
		admin:     admin,
	}
}

// Initialize wires the services and ensures the bootstrap admin account.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.signer, sm.logger, sm.validator, sm.admin)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)
	sm.metricsService = NewMetricsService(sm.repo, sm.tracker, sm.publisher, sm.logger)

	if err := sm.authService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Metrics() MetricsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.metricsService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
