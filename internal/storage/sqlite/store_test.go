package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapCreatesSchema(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var count int
	err := store.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('exercises', 'workouts', 'aliases', 'bodyweights')`,
	).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

func TestBootstrapAddsDistanceColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rows, err := store.db.QueryContext(ctx, `PRAGMA table_info(workouts)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk))
		if name == "distance" {
			found = true
		}
	}
	require.NoError(t, rows.Err())
	require.True(t, found, "expected workouts.distance column to exist after bootstrap")
}

func TestBootstrapIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Bootstrap(context.Background()))
	require.NoError(t, store.Bootstrap(context.Background()))
}
