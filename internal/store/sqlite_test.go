package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_UpsertAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "bob-1", "Bob", "body b\n"))
	require.NoError(t, s.Upsert(ctx, "alice-1", "Alice", "body a\n"))
	require.NoError(t, s.Upsert(ctx, "alice-1", "Alice Smith", "body a2\n"), "upsert replaces")

	refs, err := s.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, EntityRef{ID: "alice-1", DisplayName: "Alice Smith"}, refs[0])
	assert.Equal(t, EntityRef{ID: "bob-1", DisplayName: "Bob"}, refs[1])
}

func TestSQLite_ReadWrite(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, "alice-1", "Alice", "v1"))

	ref := EntityRef{ID: "alice-1"}
	require.NoError(t, s.WriteText(ctx, ref, "v2"))

	text, err := s.ReadText(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "v2", text)

	assert.ErrorIs(t, s.WriteText(ctx, EntityRef{ID: "ghost"}, "x"), ErrNotFound)
	_, err = s.ReadText(ctx, EntityRef{ID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_Lookups(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, "carol-1", "Carol King", ""))

	ref, ok, err := s.LookupByDisplayName(ctx, "CAROL  king")
	require.NoError(t, err)
	require.True(t, ok, "lookup goes through name normalization")
	assert.Equal(t, "carol-1", ref.ID)

	_, ok, err = s.LookupByDisplayName(ctx, "Nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	ref, ok, err = s.LookupByID(ctx, "carol-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Carol King", ref.DisplayName)
}
