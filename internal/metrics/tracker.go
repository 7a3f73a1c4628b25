// Package metrics keeps per-user gamification counters in process memory.
//
// The store is created at startup and discarded at shutdown; counters are
// deliberately not persisted, so they reset on restart.
package metrics

import "sync"

// Baseline values seeded the first time a user is awarded, chosen so the
// first award after seeding is observable as (12500, 13).
const (
	SeedXP     = 12450
	SeedStreak = 12

	XPPerActivity     = 50
	StreakPerActivity = 1
)

// Counters is a user's current XP and streak pair.
type Counters struct {
	XP     int
	Streak int
}

type entry struct {
	mu     sync.Mutex
	xp     int
	streak int
}

// Tracker maintains XP/streak counters keyed by user id. Increments for the
// same key are serialized through that key's own lock; distinct keys never
// contend with each other.
type Tracker struct {
	entries sync.Map // uint -> *entry
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Award seeds the user's counters on first use, then applies one activity's
// worth of XP and streak and returns the new pair.
func (t *Tracker) Award(userID uint) Counters {
	v, _ := t.entries.LoadOrStore(userID, &entry{xp: SeedXP, streak: SeedStreak})
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.xp += XPPerActivity
	e.streak += StreakPerActivity
	return Counters{XP: e.xp, Streak: e.streak}
}

// Get returns the user's current counters and whether any exist yet.
func (t *Tracker) Get(userID uint) (Counters, bool) {
	v, ok := t.entries.Load(userID)
	if !ok {
		return Counters{}, false
	}
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	return Counters{XP: e.xp, Streak: e.streak}, true
}
