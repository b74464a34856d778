package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, options ...Option) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "lookups.db"), options...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestKeyIsOrderInsensitive(t *testing.T) {
	t.Parallel()

	a := Key("branch_children", map[string]string{"iri": "http://e/b", "acronym": "UBERON"})
	b := Key("branch_children", map[string]string{"acronym": "UBERON", "iri": "http://e/b"})
	assert.Equal(t, a, b)

	c := Key("branch_children", map[string]string{"acronym": "CL", "iri": "http://e/b"})
	assert.NotEqual(t, a, c)

	d := Key("class_tree", map[string]string{"iri": "http://e/b", "acronym": "UBERON"})
	assert.NotEqual(t, a, d)
}

func TestSetThenGetAnnotates(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := openTestStore(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()
	params := map[string]string{"q": "liver", "acronym": "UBERON"}

	require.NoError(t, store.Set(ctx, "ontology_search", params, map[string]any{
		"collection": []any{map[string]any{"prefLabel": "Liver"}},
	}))

	now = now.Add(5 * time.Second)
	payload, ok := store.Get(ctx, "ontology_search", params)
	require.True(t, ok)
	assert.Equal(t, true, payload["_cached"])
	assert.Equal(t, int64(5), payload["_cache_age_seconds"])
	assert.Contains(t, payload, "collection")
}

func TestGetMissesUnknownKey(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, ok := store.Get(context.Background(), "ontology_search", map[string]string{"q": "liver"})
	assert.False(t, ok)
}

func TestExpiredEntryIsDeletedOnRead(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := openTestStore(t,
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	params := map[string]string{"iri": "http://e/b"}

	require.NoError(t, store.Set(ctx, "branch_children", params, map[string]any{"collection": []any{}}))

	now = now.Add(2 * time.Minute)
	_, ok := store.Get(ctx, "branch_children", params)
	assert.False(t, ok)

	// Still a miss once the clock would allow it again; the row is gone.
	now = now.Add(-2 * time.Minute)
	_, ok = store.Get(ctx, "branch_children", params)
	assert.False(t, ok)
}

func TestErrorPayloadsAreNotStored(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	params := map[string]string{"q": "liver"}

	require.NoError(t, store.Set(ctx, "ontology_search", params, map[string]any{"error": "upstream 500"}))

	_, ok := store.Get(ctx, "ontology_search", params)
	assert.False(t, ok)
}

func TestRemoveStaleKeepsFreshEntries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := openTestStore(t,
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "op", map[string]string{"k": "old"}, map[string]any{"v": float64(1)}))

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Set(ctx, "op", map[string]string{"k": "new"}, map[string]any{"v": float64(2)}))

	removed, err := store.RemoveStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := store.Get(ctx, "op", map[string]string{"k": "new"})
	assert.True(t, ok)
}

func TestClearRemovesEverything(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "op", map[string]string{"k": "1"}, map[string]any{"v": float64(1)}))
	require.NoError(t, store.Set(ctx, "op", map[string]string{"k": "2"}, map[string]any{"v": float64(2)}))

	removed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok := store.Get(ctx, "op", map[string]string{"k": "1"})
	assert.False(t, ok)
}
