package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheHelper(client, "user:"), mr
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	want := cachedUser{ID: 1, Username: "alice"}
	require.NoError(t, helper.Set(ctx, "id:1", want, time.Minute))

	var got cachedUser
	require.NoError(t, helper.Get(ctx, "id:1", &got))
	assert.Equal(t, want, got)

	require.NoError(t, helper.Delete(ctx, "id:1"))
	err := helper.Get(ctx, "id:1", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_TTLExpiry(t *testing.T) {
	helper, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "id:1", cachedUser{ID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedUser
	err := helper.Get(ctx, "id:1", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedUser{ID: 7, Username: "bob"}, nil
	}

	var got cachedUser
	require.NoError(t, helper.CacheOrExecute(ctx, "id:7", &got, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "bob", got.Username)

	// Second read is served from cache.
	got = cachedUser{}
	require.NoError(t, helper.CacheOrExecute(ctx, "id:7", &got, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "bob", got.Username)
}

func TestCacheHelper_CacheOrExecute_FetchError(t *testing.T) {
	helper, _ := newTestCache(t)

	wantErr := errors.New("db down")
	var got cachedUser
	err := helper.CacheOrExecute(context.Background(), "id:9", &got, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "user:")
	ctx := context.Background()

	assert.NoError(t, helper.Set(ctx, "id:1", cachedUser{ID: 1}, time.Minute))
	assert.NoError(t, helper.Delete(ctx, "id:1"))

	var got cachedUser
	assert.ErrorIs(t, helper.Get(ctx, "id:1", &got), ErrCacheNotAvailable)

	// Cache-aside still works, it just always fetches.
	require.NoError(t, helper.CacheOrExecute(ctx, "id:1", &got, time.Minute, func() (interface{}, error) {
		return cachedUser{ID: 1, Username: "alice"}, nil
	}))
	assert.Equal(t, "alice", got.Username)
}

func TestCacheManager_InvalidateUser(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cm := NewCacheManager(client)
	ctx := context.Background()

	require.NoError(t, cm.User.Set(ctx, "id:1", cachedUser{ID: 1, Username: "alice"}, time.Minute))
	require.NoError(t, cm.User.Set(ctx, "username:alice", cachedUser{ID: 1}, time.Minute))
	require.NoError(t, cm.Exists.Set(ctx, "email:alice@example.com", true, time.Minute))
	// Entry for a value the user no longer holds; a rename must clear it too.
	require.NoError(t, cm.Exists.Set(ctx, "username:old-alice", true, time.Minute))

	cm.InvalidateUser(ctx, 1, "alice", "alice@example.com")

	var got cachedUser
	assert.ErrorIs(t, cm.User.Get(ctx, "id:1", &got), ErrCacheNotFound)
	assert.ErrorIs(t, cm.User.Get(ctx, "username:alice", &got), ErrCacheNotFound)
	var exists bool
	assert.ErrorIs(t, cm.Exists.Get(ctx, "email:alice@example.com", &exists), ErrCacheNotFound)
	assert.ErrorIs(t, cm.Exists.Get(ctx, "username:old-alice", &exists), ErrCacheNotFound)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "username:alice", cachedUser{ID: 1}, time.Minute))
	require.NoError(t, helper.Set(ctx, "username:bob", cachedUser{ID: 2}, time.Minute))
	require.NoError(t, helper.Set(ctx, "id:1", cachedUser{ID: 1}, time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "username:*"))

	var got cachedUser
	assert.ErrorIs(t, helper.Get(ctx, "username:alice", &got), ErrCacheNotFound)
	assert.ErrorIs(t, helper.Get(ctx, "username:bob", &got), ErrCacheNotFound)
	assert.NoError(t, helper.Get(ctx, "id:1", &got))
}
