package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/config"
	"github.com/ironlog-dev/ironlog/internal/service"
	"github.com/ironlog-dev/ironlog/internal/storage/sqlite"
	"github.com/ironlog-dev/ironlog/internal/types"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	dir := t.TempDir()

	store, err := sqlite.Open(context.Background(), dir+"/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg, err := config.Open(dir + "/config.toml")
	require.NoError(t, err)

	return service.New(store, cfg)
}

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }

func TestS1ImplicitCreateOnAdd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resistance := types.Resistance
	legs := "legs"
	id, _, err := svc.AddWorkout(ctx, service.AddWorkoutParams{
		Identifier:      "Squat",
		Date:            time.Date(2015, 6, 3, 0, 0, 0, 0, time.UTC),
		Sets:            intp(5),
		Reps:            intp(5),
		Weight:          floatp(100),
		ImplicitType:    &resistance,
		ImplicitMuscles: &legs,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	def, err := svc.ResolveExerciseIdentifier(ctx, "Squat")
	require.NoError(t, err)
	require.NotNil(t, def)
	require.Equal(t, types.Resistance, def.Type)
	require.Equal(t, "legs", def.Muscles)

	rows, err := svc.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 3, rows[0].Timestamp.Day())
	require.Equal(t, 12, rows[0].Timestamp.Hour())
}

func TestS2BodyweightCompositionProducesPB(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetBodyweight(70))
	_, err := svc.CreateExercise(ctx, "Pull-ups", types.BodyWeight, "")
	require.NoError(t, err)

	bw := 70.0
	_, info, err := svc.AddWorkout(ctx, service.AddWorkoutParams{
		Identifier:      "Pull-ups",
		Date:            time.Now(),
		Sets:            intp(3),
		Reps:            intp(10),
		Weight:          floatp(5),
		BodyweightToUse: &bw,
	})
	require.NoError(t, err)
	require.NotNil(t, info)
	require.True(t, info.Weight.Achieved)
	require.True(t, info.Reps.Achieved)

	rows, err := svc.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.InDelta(t, 75, *rows[0].Weight, 0.0001)
}

func TestS3RenameCascade(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, "Old", types.Resistance, "")
	require.NoError(t, err)
	require.NoError(t, svc.CreateAlias(ctx, "on", "Old"))

	_, _, err = svc.AddWorkout(ctx, service.AddWorkoutParams{Identifier: "on", Date: time.Now()})
	require.NoError(t, err)

	newName := "New"
	_, err = svc.EditExercise(ctx, "on", &newName, nil, nil)
	require.NoError(t, err)

	rows, err := svc.ListWorkouts(ctx, types.WorkoutFilters{ExerciseName: &newName})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "New", rows[0].ExerciseName)

	_, err = svc.GetExerciseStats(ctx, "Old")
	require.ErrorIs(t, err, types.ErrExerciseNotFound)
}

func TestS4AliasCollision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, "Bench Press", types.Resistance, "")
	require.NoError(t, err)

	err = svc.CreateAlias(ctx, "1", "Bench Press")
	require.Error(t, err)
	var collision *types.AliasCollisionError
	require.ErrorAs(t, err, &collision)
	require.Equal(t, types.CollidesWithID, collision.Reason)

	err = svc.CreateAlias(ctx, "bench press", "Bench Press")
	require.Error(t, err)
	require.ErrorAs(t, err, &collision)
	require.Equal(t, types.CollidesWithName, collision.Reason)

	err = svc.CreateAlias(ctx, "bp", "Bench Press")
	require.NoError(t, err)

	err = svc.CreateAlias(ctx, "BP", "Bench Press")
	require.Error(t, err)
	require.ErrorAs(t, err, &collision)
	require.Equal(t, types.CollidesWithAlias, collision.Reason)
}

func TestS5NthLastDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resistance := types.Resistance
	legs := "legs"
	for _, day := range []int{2, 7, 9} {
		_, _, err := svc.AddWorkout(ctx, service.AddWorkoutParams{
			Identifier:      "Squats",
			Date:            time.Date(2015, 6, day, 0, 0, 0, 0, time.UTC),
			ImplicitType:    &resistance,
			ImplicitMuscles: &legs,
		})
		require.NoError(t, err)
	}

	rows, err := svc.ListWorkoutsForExerciseOnNthLastDay(ctx, "Squats", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 9, rows[0].Timestamp.Day())

	rows, err = svc.ListWorkoutsForExerciseOnNthLastDay(ctx, "Squats", 2)
	require.NoError(t, err)
	require.Equal(t, 7, rows[0].Timestamp.Day())

	rows, err = svc.ListWorkoutsForExerciseOnNthLastDay(ctx, "Squats", 3)
	require.NoError(t, err)
	require.Equal(t, 2, rows[0].Timestamp.Day())

	rows, err = svc.ListWorkoutsForExerciseOnNthLastDay(ctx, "Squats", 4)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestS7PBNotifyGate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CheckPBNotificationGate()
	require.ErrorIs(t, err, types.ErrPbNotificationNotSet)

	require.NoError(t, svc.SetNotifyPBEnabled(true))
	enabled, err := svc.CheckPBNotificationGate()
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestCheckConsistencyStaysCleanAfterCascadingDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	report, err := svc.CheckConsistency(ctx)
	require.NoError(t, err)
	require.True(t, report.IsConsistent())

	_, err = svc.CreateExercise(ctx, "Squat", types.Resistance, "")
	require.NoError(t, err)
	require.NoError(t, svc.CreateAlias(ctx, "sq", "Squat"))
	_, err = svc.DeleteExercise(ctx, []string{"Squat"})
	require.NoError(t, err)

	// delete_exercise's transaction removes the alias along with the
	// exercise row, so nothing dangling should ever be observable through
	// the service's own operations.
	report, err = svc.CheckConsistency(ctx)
	require.NoError(t, err)
	require.True(t, report.IsConsistent())
}
