package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/skillpath/user-service/internal/auth"
	"github.com/skillpath/user-service/internal/config"
	"github.com/skillpath/user-service/internal/models"
	"github.com/skillpath/user-service/internal/repositories"
	"github.com/skillpath/user-service/internal/validator"
)

// resetTokenTTL is the validity window of a password recovery token.
const resetTokenTTL = time.Hour

// forgotPasswordMessage is returned for known and unknown emails alike.
const forgotPasswordMessage = "If the email exists, a reset token has been issued"

type authService struct {
	repo      repositories.Repository
	signer    *auth.Signer
	logger    *slog.Logger
	validator *validator.Validator
	admin     config.AdminConfig
}

func NewAuthService(repo repositories.Repository, signer *auth.Signer, logger *slog.Logger, v *validator.Validator, admin config.AdminConfig) AuthService {
	return &authService{
		repo:      repo,
		signer:    signer,
		logger:    logger,
		validator: v,
		admin:     admin,
	}
}

// SignIn authenticates by email and issues a bearer token. The identifier is
// first resolved to the owning account's username; an identifier that matches
// no email is tried as a username directly. Every failure mode returns
// ErrAuthenticationFailed so the response never reveals whether the account
// exists.
func (s *authService) SignIn(ctx context.Context, req *SigninRequest) (*SigninResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	username := req.Email
	if byEmail, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		username = byEmail.Username
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to resolve signin identifier: %w", err)
	}

	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrAuthenticationFailed
	}

	token, err := s.signer.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User signed in", "user_id", user.ID, "username", user.Username)

	return &SigninResponse{
		Token:       token,
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Roles:       user.Roles,
		RoadmapJSON: user.Roadmap(),
	}, nil
}

// SignUp registers a new account. Any roles supplied in the request are
// ignored; accounts always start with the base role only.
func (s *authService) SignUp(ctx context.Context, req *SignupRequest) (*models.PublicUser, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// Username is checked before email, so a request clashing on both
	// reports the username conflict.
	taken, err := s.repo.User().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Roles:        datatypes.NewJSONSlice([]string{string(models.RoleUser)}),
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, duplicateToConflict(err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)

	return user.ToPublic(), nil
}

// ForgotPassword issues a single-use recovery token for the account owning
// the given email. Unknown emails get the same acknowledgement with no token.
func (s *authService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return &ForgotPasswordResponse{Message: forgotPasswordMessage}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token := uuid.New().String()
	expiry := time.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.Info("Reset token issued", "user_id", user.ID)

	return &ForgotPasswordResponse{Message: forgotPasswordMessage, Token: token}, nil
}

// ResetPassword consumes a recovery token and sets a new password. The token
// is invalid at or after its expiry instant, and is cleared on success so it
// cannot be replayed.
func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	user, err := s.repo.User().GetByResetToken(ctx, req.Token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if user.ResetTokenExpiry == nil || !time.Now().Before(*user.ResetTokenExpiry) {
		return ErrResetTokenExpired
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil

	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset completed", "user_id", user.ID)

	return nil
}

// EnsureAdmin creates the configured administrator account if absent.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	exists, err := s.repo.User().ExistsByUsername(ctx, s.admin.Username)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(s.admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     s.admin.Username,
		Email:        s.admin.Email,
		PasswordHash: hash,
		Roles:        datatypes.NewJSONSlice([]string{string(models.RoleUser), string(models.RoleAdmin)}),
	}

	if err := s.repo.User().Create(ctx, admin); err != nil {
		// Another replica may have won the race.
		if repositories.IsDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("Admin account created", "username", s.admin.Username)

	return nil
}

// duplicateToConflict maps a unique-constraint violation raised by a
// concurrent writer onto the matching conflict error.
func duplicateToConflict(err error) error {
	if strings.Contains(err.Error(), "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
