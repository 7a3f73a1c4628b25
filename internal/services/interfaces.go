package services

import (
	"context"

	"github.com/skillpath/user-service/internal/metrics"
	"github.com/skillpath/user-service/internal/models"
	"github.com/skillpath/user-service/internal/roadmap"
	"github.com/skillpath/user-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request DTOs live with the validator so the validation rules stay next to
// the wire format.
type SigninRequest = validator.SigninRequest
type SignupRequest = validator.SignupRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest
type UpdateProfileRequest = validator.UpdateProfileRequest
type UpdateRoadmapRequest = validator.UpdateRoadmapRequest

// SigninResponse is the authenticated session payload returned after a
// successful signin.
type SigninResponse struct {
	Token       string   `json:"token"`
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	RoadmapJSON string   `json:"roadmapJson,omitempty"`
}

// ForgotPasswordResponse acknowledges a recovery request. Token is only set
// when the email matched an account; the message is identical either way.
type ForgotPasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ActivityResult is the new metrics pair after one completed activity.
type ActivityResult struct {
	XP     int `json:"xp"`
	Streak int `json:"streak"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	SignIn(ctx context.Context, req *SigninRequest) (*SigninResponse, error)
	SignUp(ctx context.Context, req *SignupRequest) (*models.PublicUser, error)
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error

	// EnsureAdmin creates the bootstrap administrator account when it does
	// not exist yet. Safe to call on every startup.
	EnsureAdmin(ctx context.Context) error
}

type UserService interface {
	GetByID(ctx context.Context, id uint) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.PublicUser, error)

	UpdateRoadmap(ctx context.Context, id uint, req *UpdateRoadmapRequest) (*models.PublicUser, error)
	CompleteRoadmapNode(ctx context.Context, id uint, nodeID string) (*roadmap.Roadmap, error)
}

type MetricsService interface {
	// CompleteActivity awards one activity's worth of XP and streak and
	// pushes the new pair to the user's real-time topic.
	CompleteActivity(ctx context.Context, userID uint) (*ActivityResult, error)

	CurrentMetrics(userID uint) (metrics.Counters, bool)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Metrics() MetricsService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
