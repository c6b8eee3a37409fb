package engine

import (
	"sort"
	"sync"
	"time"
)

// DefaultLockTimeout is the bounded lock lifetime. An entity whose
// owning operation never released it becomes lockable again after this
// long, guaranteeing forward progress.
const DefaultLockTimeout = 15 * time.Second

// LockMap provides per-entity exclusive, time-bounded locks.
//
// Acquisition never blocks: TryAcquire on a held entity fails
// immediately, and the caller drops its sync request silently. This is
// the at-most-one-concurrent-sync-per-entity guarantee.
//
// Thread-safety: all methods are safe for concurrent use.
type LockMap struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	held map[string]time.Time // entity id -> expiry
}

// NewLockMap creates a lock map with the given lock lifetime. The now
// function is injectable so tests can drive expiry deterministically.
func NewLockMap(ttl time.Duration, now func() time.Time) *LockMap {
	if now == nil {
		now = time.Now
	}
	return &LockMap{
		ttl:  ttl,
		now:  now,
		held: make(map[string]time.Time),
	}
}

// TryAcquire attempts to lock an entity. Returns false if the entity
// is already locked. An expired lock counts as free and is reclaimed.
func (l *LockMap) TryAcquire(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, ok := l.held[id]; ok && l.now().Before(expiry) {
		return false
	}
	l.held[id] = l.now().Add(l.ttl)
	return true
}

// Release unlocks an entity. Releasing an unheld entity is a no-op;
// every exit path of a sync releases unconditionally.
func (l *LockMap) Release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
}

// Held reports whether an entity is currently locked.
func (l *LockMap) Held(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.held[id]
	return ok && l.now().Before(expiry)
}

// HeldIDs returns the ids of all currently locked entities, sorted.
func (l *LockMap) HeldIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []string
	for id, expiry := range l.held {
		if l.now().Before(expiry) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ClearAll force-releases every lock and returns how many were
// dropped. Operator recovery only; a sync interrupted this way leaves
// documents consistent because each entity is written atomically.
func (l *LockMap) ClearAll() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.held)
	l.held = make(map[string]time.Time)
	return n
}
