package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAward_SeedsThenIncrements(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	first := tr.Award(1)
	assert.Equal(t, Counters{XP: 12500, Streak: 13}, first)

	second := tr.Award(1)
	assert.Equal(t, Counters{XP: 12550, Streak: 14}, second)
}

func TestGet(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	_, ok := tr.Get(7)
	assert.False(t, ok)

	tr.Award(7)
	got, ok := tr.Get(7)
	assert.True(t, ok)
	assert.Equal(t, Counters{XP: 12500, Streak: 13}, got)
}

func TestAward_ConcurrentUsersAreIndependent(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	const callsPerUser = 200
	users := []uint{10, 20, 30}

	var wg sync.WaitGroup
	for _, id := range users {
		for i := 0; i < callsPerUser; i++ {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				tr.Award(id)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range users {
		got, ok := tr.Get(id)
		assert.True(t, ok)
		assert.Equal(t, SeedXP+callsPerUser*XPPerActivity, got.XP)
		assert.Equal(t, SeedStreak+callsPerUser*StreakPerActivity, got.Streak)
	}
}
