package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/storage/sqlite"
	"github.com/ironlog-dev/ironlog/internal/sync"
	"github.com/ironlog-dev/ironlog/internal/types"
)

func newStore(t *testing.T) *sqlite.SQLiteStorage {
	t.Helper()
	store, err := sqlite.Open(context.Background(), t.TempDir()+"/sync-test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func floatp(v float64) *float64 { return &v }

func TestBuildChangeSetWithNoCutoffIncludesEverything(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Squat", types.Resistance, "legs")
	require.NoError(t, err)
	require.NoError(t, store.CreateAlias(ctx, "sq", "Squat"))
	_, err = store.InsertWorkout(ctx, &types.Workout{
		Timestamp:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		ExerciseName: "Squat",
		Weight:       floatp(100),
	})
	require.NoError(t, err)
	_, err = store.CreateBodyweightEntry(ctx, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), 80)
	require.NoError(t, err)

	cs, err := sync.BuildChangeSet(ctx, store, nil)
	require.NoError(t, err)
	require.Len(t, cs.Exercises, 1)
	require.Len(t, cs.Aliases, 1)
	require.Len(t, cs.Workouts, 1)
	require.Len(t, cs.Bodyweights, 1)
	require.Equal(t, "Squat", cs.Exercises[0].Name)
	require.Equal(t, "resistance", cs.Exercises[0].Type)
}

func TestBuildChangeSetFiltersWorkoutsAndBodyweightsByCutoff(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Squat", types.Resistance, "")
	require.NoError(t, err)

	cutoff := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	_, err = store.InsertWorkout(ctx, &types.Workout{
		Timestamp:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		ExerciseName: "Squat",
	})
	require.NoError(t, err)
	_, err = store.InsertWorkout(ctx, &types.Workout{
		Timestamp:    time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		ExerciseName: "Squat",
	})
	require.NoError(t, err)
	_, err = store.CreateBodyweightEntry(ctx, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), 80)
	require.NoError(t, err)
	_, err = store.CreateBodyweightEntry(ctx, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), 81)
	require.NoError(t, err)

	cs, err := sync.BuildChangeSet(ctx, store, &cutoff)
	require.NoError(t, err)
	require.Len(t, cs.Workouts, 1)
	require.Equal(t, 10, mustParseDay(t, cs.Workouts[0].Timestamp))
	require.Len(t, cs.Bodyweights, 1)

	// exercises are always included in full regardless of cutoff
	require.Len(t, cs.Exercises, 1)
}

func mustParseDay(t *testing.T, rfc3339 string) int {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, rfc3339)
	require.NoError(t, err)
	return ts.Day()
}

func TestApplyServerChangesCreatesMissingExercisesAliasesAndRows(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	cs := sync.ChangeSet{
		Exercises: []sync.ExerciseWire{{Name: "Deadlift", Type: "resistance", Muscles: "back"}},
		Aliases:   []sync.AliasWire{{AliasName: "dl", ExerciseName: "Deadlift"}},
		Workouts: []sync.WorkoutWire{{
			Timestamp:    "2026-01-02T12:00:00Z",
			ExerciseName: "Deadlift",
			Weight:       floatp(150),
		}},
		Bodyweights: []sync.BodyweightWire{{Timestamp: "2026-01-02T09:00:00Z", Weight: 82}},
	}

	require.NoError(t, sync.ApplyServerChanges(ctx, store, cs))

	def, err := store.GetExerciseByName(ctx, "Deadlift")
	require.NoError(t, err)
	require.NotNil(t, def)
	require.Equal(t, "back", def.Muscles)

	exists, err := store.AliasExists(ctx, "dl")
	require.NoError(t, err)
	require.True(t, exists)

	workouts, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.InDelta(t, 150, *workouts[0].Weight, 0.0001)

	latest, err := store.GetLatestBodyweight(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.InDelta(t, 82, *latest, 0.0001)
}

func TestApplyServerChangesSkipsExerciseAlreadyPresent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Squat", types.Cardio, "legs")
	require.NoError(t, err)

	cs := sync.ChangeSet{
		Exercises: []sync.ExerciseWire{{Name: "Squat", Type: "resistance", Muscles: "quads"}},
	}
	require.NoError(t, sync.ApplyServerChanges(ctx, store, cs))

	def, err := store.GetExerciseByName(ctx, "Squat")
	require.NoError(t, err)
	require.Equal(t, types.Cardio, def.Type)
	require.Equal(t, "legs", def.Muscles)
}

func TestApplyServerChangesSkipsDuplicateBodyweightTimestamp(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	_, err := store.CreateBodyweightEntry(ctx, ts, 80)
	require.NoError(t, err)

	cs := sync.ChangeSet{
		Bodyweights: []sync.BodyweightWire{{Timestamp: ts.Format(time.RFC3339), Weight: 99}},
	}
	require.NoError(t, sync.ApplyServerChanges(ctx, store, cs))

	entries, err := store.ListBodyweights(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.InDelta(t, 80, entries[0].Weight, 0.0001)
}
