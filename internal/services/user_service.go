package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/skillpath/user-service/internal/auth"
	"github.com/skillpath/user-service/internal/models"
	"github.com/skillpath/user-service/internal/repositories"
	"github.com/skillpath/user-service/internal/roadmap"
	"github.com/skillpath/user-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.PublicUser, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToPublic(), nil
}

// UpdateProfile applies a partial update. Fields left nil or empty keep their
// current value; a username or email that would collide with another account
// fails the whole update and leaves the record untouched.
func (s *userService) UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.PublicUser, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		taken, err := s.repo.User().ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		taken, err := s.repo.User().ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, duplicateToConflict(err)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)

	return user.ToPublic(), nil
}

// UpdateRoadmap replaces the stored roadmap document wholesale. The document
// is persisted as-is; no node-level validation beyond it being JSON the
// client chose to store.
func (s *userService) UpdateRoadmap(ctx context.Context, id uint, req *UpdateRoadmapRequest) (*models.PublicUser, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.RoadmapJSON = datatypes.JSON(req.RoadmapJSON)

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update roadmap: %w", err)
	}

	s.logger.Info("Roadmap replaced", "user_id", user.ID)

	return user.ToPublic(), nil
}

// CompleteRoadmapNode marks the given node completed and activates its
// successor, then persists the advanced document. Only the currently active
// node can be completed.
func (s *userService) CompleteRoadmapNode(ctx context.Context, id uint, nodeID string) (*roadmap.Roadmap, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(user.RoadmapJSON) == 0 {
		return nil, ErrNoRoadmap
	}

	rm, err := roadmap.Parse(user.RoadmapJSON)
	if err != nil {
		return nil, err
	}

	if err := rm.CompleteNode(nodeID); err != nil {
		return nil, err
	}

	data, err := rm.Serialize()
	if err != nil {
		return nil, err
	}
	user.RoadmapJSON = data

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist roadmap progress: %w", err)
	}

	s.logger.Info("Roadmap node completed", "user_id", user.ID, "node_id", nodeID)

	return rm, nil
}

func (s *userService) loadUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
