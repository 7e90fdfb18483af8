package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

func intp(v int) *int          { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

func TestInsertWorkout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := &types.Workout{
		Timestamp:    time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ExerciseName: "Bench Press",
		Sets:         intp(3),
		Reps:         intp(8),
		Weight:       floatp(80),
	}
	id, err := store.InsertWorkout(ctx, w)
	require.NoError(t, err)
	require.NotZero(t, id)

	rows, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Bench Press", rows[0].ExerciseName)
	require.Equal(t, 3, *rows[0].Sets)
	require.Nil(t, rows[0].Distance)
}

func TestUpdateWorkoutPartialPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertWorkout(ctx, &types.Workout{
		Timestamp:    time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ExerciseName: "Squat",
		Reps:         intp(5),
		Weight:       floatp(100),
		Notes:        strp("felt heavy"),
	})
	require.NoError(t, err)

	err = store.UpdateWorkout(ctx, id, storage.WorkoutPatch{
		Weight:     floatp(102.5),
		ClearNotes: true,
	})
	require.NoError(t, err)

	rows, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, 102.5, *rows[0].Weight, 0.0001)
	require.Equal(t, 5, *rows[0].Reps)
	require.Nil(t, rows[0].Notes)
}

func TestUpdateWorkoutMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateWorkout(context.Background(), 9999, storage.WorkoutPatch{Weight: floatp(1)})
	var notFound *types.WorkoutNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteWorkoutsReportsPerIDOutcome(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.InsertWorkout(ctx, &types.Workout{
		Timestamp:    time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ExerciseName: "Row",
	})
	require.NoError(t, err)

	outcomes := store.DeleteWorkouts(ctx, []int64{id1, 9999})
	require.NoError(t, outcomes[id1])
	require.Error(t, outcomes[9999])

	remaining, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Empty(t, remaining)
}
