package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/skillpath/user-service/internal/cache"
	"github.com/skillpath/user-service/internal/models"
	"github.com/skillpath/user-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a new account record.
func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.cacheManager.InvalidateUser(ctx, user.ID, user.Username, user.Email)
	return nil
}

// Update persists the full user record and invalidates derived cache entries.
func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	// Save rather than Updates so cleared reset-token fields are written back
	// as NULL.
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.cacheManager.InvalidateUser(ctx, user.ID, user.Username, user.Email)
	return nil
}

// cachedUser is the cache representation of a user. The model hides the
// credential fields from JSON, but a cache round trip must keep them: a
// record loaded from cache gets saved back whole on updates.
type cachedUser struct {
	models.User
	PasswordHash     string     `json:"password_hash"`
	ResetToken       *string    `json:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time `json:"reset_token_expiry,omitempty"`
}

func newCachedUser(u *models.User) *cachedUser {
	return &cachedUser{
		User:             *u,
		PasswordHash:     u.PasswordHash,
		ResetToken:       u.ResetToken,
		ResetTokenExpiry: u.ResetTokenExpiry,
	}
}

func (c *cachedUser) toModel() *models.User {
	u := c.User
	u.PasswordHash = c.PasswordHash
	u.ResetToken = c.ResetToken
	u.ResetTokenExpiry = c.ResetTokenExpiry
	return &u
}

// GetByID retrieves a user by primary key with caching.
func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var cu cachedUser

	err := r.cacheManager.User.CacheOrExecute(ctx, cacheKey, &cu, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := r.db.WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, err
		}
		return newCachedUser(&dbUser), nil
	})
	if err != nil {
		return nil, err
	}

	return cu.toModel(), nil
}

// GetByUsername retrieves a user by its unique username. Lookups feeding
// credential verification bypass the cache so a racing password change is
// never verified against a stale hash.
func (r *UserPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by its unique email.
func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken retrieves the user currently holding the given reset token.
func (r *UserPostgreSQL) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users with an optional username/email search.
func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if err := query.Order("id ASC").Limit(filters.Limit).Offset(filters.Offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// ExistsByUsername checks username uniqueness with a short-lived cache.
func (r *UserPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// ExistsByEmail checks email uniqueness with a short-lived cache.
func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserPostgreSQL) exists(ctx context.Context, column, value string) (bool, error) {
	cacheKey := fmt.Sprintf("%s:%s", column, value)
	var exists bool

	err := r.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check %s existence: %w", column, err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}
