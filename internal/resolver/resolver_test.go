package resolver_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/resolver"
	"github.com/ironlog-dev/ironlog/internal/storage/sqlite"
	"github.com/ironlog-dev/ironlog/internal/types"
)

func newStore(t *testing.T) *sqlite.SQLiteStorage {
	t.Helper()
	store, err := sqlite.Open(context.Background(), t.TempDir()+"/resolver-test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResolveByID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "")
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, store, strconv.FormatInt(id, 10))
	require.NoError(t, err)
	require.NotNil(t, result.Definition)
	require.Equal(t, types.ViaID, result.Via)
	require.Equal(t, "Bench Press", result.Definition.Name)
}

func TestResolveByIDMissingDoesNotFallThrough(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// An exercise whose name happens to look numeric must not be matched
	// when a numeric token fails an id lookup.
	_, err := store.CreateExercise(ctx, "9999", types.Resistance, "")
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, store, "9999")
	require.NoError(t, err)
	require.Nil(t, result.Definition)
	require.Equal(t, types.ViaID, result.Via)
}

func TestResolveByAlias(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "")
	require.NoError(t, err)
	require.NoError(t, store.CreateAlias(ctx, "bp", "Bench Press"))

	result, err := resolver.Resolve(ctx, store, "BP")
	require.NoError(t, err)
	require.NotNil(t, result.Definition)
	require.Equal(t, types.ViaAlias, result.Via)
	require.Equal(t, "Bench Press", result.Definition.Name)
}

func TestResolveByNameCaseInsensitive(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "")
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, store, "BENCH PRESS")
	require.NoError(t, err)
	require.NotNil(t, result.Definition)
	require.Equal(t, types.ViaName, result.Via)
}

func TestResolveNoMatch(t *testing.T) {
	store := newStore(t)
	result, err := resolver.Resolve(context.Background(), store, "nonexistent")
	require.NoError(t, err)
	require.Nil(t, result.Definition)
	require.Equal(t, types.ViaName, result.Via)
}
