package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/kinship/internal/testutil"
)

func TestLockMap_Exclusive(t *testing.T) {
	l := NewLockMap(DefaultLockTimeout, nil)

	assert.True(t, l.TryAcquire("alice-1"))
	assert.False(t, l.TryAcquire("alice-1"), "second acquire must fail")
	assert.True(t, l.TryAcquire("bob-1"), "locks are per-entity")

	l.Release("alice-1")
	assert.True(t, l.TryAcquire("alice-1"), "released entity is lockable again")
}

func TestLockMap_ExpiryReclaim(t *testing.T) {
	clk := testutil.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	l := NewLockMap(15*time.Second, clk.Now)

	assert.True(t, l.TryAcquire("alice-1"))
	assert.False(t, l.TryAcquire("alice-1"))

	clk.Advance(14 * time.Second)
	assert.False(t, l.TryAcquire("alice-1"), "lock still live before the deadline")
	assert.True(t, l.Held("alice-1"))

	clk.Advance(2 * time.Second)
	assert.False(t, l.Held("alice-1"), "expired lock no longer counts as held")
	assert.True(t, l.TryAcquire("alice-1"), "expired lock is reclaimed")
}

func TestLockMap_ReleaseUnheldIsNoop(t *testing.T) {
	l := NewLockMap(DefaultLockTimeout, nil)
	l.Release("ghost")
	assert.True(t, l.TryAcquire("ghost"))
}

func TestLockMap_HeldIDsAndClearAll(t *testing.T) {
	l := NewLockMap(DefaultLockTimeout, nil)
	l.TryAcquire("carol-1")
	l.TryAcquire("alice-1")
	l.TryAcquire("bob-1")

	assert.Equal(t, []string{"alice-1", "bob-1", "carol-1"}, l.HeldIDs())

	assert.Equal(t, 3, l.ClearAll())
	assert.Empty(t, l.HeldIDs())
	assert.True(t, l.TryAcquire("alice-1"))
}
