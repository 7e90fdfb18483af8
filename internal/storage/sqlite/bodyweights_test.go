package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/types"
)

func TestBodyweightLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 8, 8, 0, 0, 0, time.UTC)

	id1, err := store.CreateBodyweightEntry(ctx, t1, 82.5)
	require.NoError(t, err)
	require.NotZero(t, id1)

	_, err = store.CreateBodyweightEntry(ctx, t2, 81.9)
	require.NoError(t, err)

	latest, err := store.GetLatestBodyweight(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.InDelta(t, 81.9, *latest, 0.0001)

	all, err := store.ListBodyweights(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].Timestamp.After(all[1].Timestamp))

	limit := 1
	limited, err := store.ListBodyweights(ctx, &limit)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	require.NoError(t, store.DeleteBodyweight(ctx, id1))
	remaining, err := store.ListBodyweights(ctx, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestCreateBodyweightEntryDuplicateTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	_, err := store.CreateBodyweightEntry(ctx, ts, 80)
	require.NoError(t, err)

	_, err = store.CreateBodyweightEntry(ctx, ts, 80.5)
	require.Error(t, err)
	var existsErr *types.BodyweightEntryExistsError
	require.ErrorAs(t, err, &existsErr)
}

func TestGetLatestBodyweightWithNoEntries(t *testing.T) {
	store := newTestStore(t)
	latest, err := store.GetLatestBodyweight(context.Background())
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestDeleteBodyweightMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.DeleteBodyweight(context.Background(), 9999)
	require.ErrorIs(t, err, types.ErrBodyweightNotFound)
}
