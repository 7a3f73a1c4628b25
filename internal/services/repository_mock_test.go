package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/skillpath/user-service/internal/models"
	"github.com/skillpath/user-service/internal/repositories"
)

// memoryRepository is an in-memory repositories.Repository for service tests.
// It mimics the unique constraints the real schema enforces.
type memoryRepository struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *memoryRepository) User() repositories.UserRepository { return m }

func (m *memoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }
func (m *memoryRepository) Close() error                   { return nil }

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Roles = append(c.Roles[:0:0], u.Roles...)
	if u.ResetToken != nil {
		t := *u.ResetToken
		c.ResetToken = &t
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &e
	}
	c.RoadmapJSON = append(c.RoadmapJSON[:0:0], u.RoadmapJSON...)
	return &c
}

func (m *memoryRepository) checkUnique(u *models.User) error {
	for id, other := range m.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_users_username\"")
		}
		if other.Email == u.Email {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_users_email\"")
		}
	}
	return nil
}

func (m *memoryRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(user); err != nil {
		return err
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *memoryRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := m.checkUnique(user); err != nil {
		return err
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(u), nil
}

func (m *memoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findOne(func(u *models.User) bool { return u.Username == username })
}

func (m *memoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(func(u *models.User) bool { return u.Email == email })
}

func (m *memoryRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return m.findOne(func(u *models.User) bool {
		return u.ResetToken != nil && *u.ResetToken == token
	})
}

func (m *memoryRepository) findOne(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.User
	for _, u := range m.users {
		if filters.Query == "" ||
			strings.Contains(u.Username, filters.Query) ||
			strings.Contains(u.Email, filters.Query) {
			out = append(out, cloneUser(u))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}
