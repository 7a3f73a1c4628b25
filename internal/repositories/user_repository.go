package repositories

import (
	"context"

	"github.com/skillpath/user-service/internal/models"
)

// UserFilters defines filters for user list queries.
type UserFilters struct {
	Query  string // Search query for username or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// UserRepository is the persistence boundary for account records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
