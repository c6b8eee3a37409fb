package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := NewVault(filepath.Join(t.TempDir(), "contacts"))
	require.NoError(t, err)
	return v
}

func seedVaultFile(t *testing.T, v *Vault, id, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(v.Dir(), id+".md"), []byte(text), 0o644))
}

func TestVault_ListEntities(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	seedVaultFile(t, v, "bob-1", "---\nname: Bob\n---\nhi\n")
	seedVaultFile(t, v, "alice-1", "---\nname: Alice\n---\nhi\n")
	seedVaultFile(t, v, "no-name", "plain body\n")
	require.NoError(t, os.WriteFile(filepath.Join(v.Dir(), "notes.txt"), []byte("x"), 0o644))

	refs, err := v.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 3, "non-markdown files are not contacts")

	assert.Equal(t, EntityRef{ID: "alice-1", DisplayName: "Alice"}, refs[0])
	assert.Equal(t, EntityRef{ID: "bob-1", DisplayName: "Bob"}, refs[1])
	assert.Equal(t, EntityRef{ID: "no-name", DisplayName: "no-name"}, refs[2],
		"display name falls back to the file stem")
}

func TestVault_ReadWriteRoundTrip(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	seedVaultFile(t, v, "alice-1", "original\n")

	ref := EntityRef{ID: "alice-1"}
	require.NoError(t, v.WriteText(ctx, ref, "replaced\n"))

	text, err := v.ReadText(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", text)

	// The temp file from the atomic write must be gone.
	entries, err := os.ReadDir(v.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestVault_ReadMissing(t *testing.T) {
	v := newTestVault(t)
	_, err := v.ReadText(context.Background(), EntityRef{ID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVault_LookupByDisplayName(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	seedVaultFile(t, v, "carol-1", "---\nname: Carol King\n---\n")

	ref, ok, err := v.LookupByDisplayName(ctx, "carol  KING")
	require.NoError(t, err)
	require.True(t, ok, "lookup is case- and whitespace-insensitive")
	assert.Equal(t, "carol-1", ref.ID)

	_, ok, err = v.LookupByDisplayName(ctx, "Nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVault_LookupByID(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	seedVaultFile(t, v, "carol-1", "---\nname: Carol\n---\n")

	ref, ok, err := v.LookupByID(ctx, "carol-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Carol", ref.DisplayName)

	_, ok, err = v.LookupByID(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}
