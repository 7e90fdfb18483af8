package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironlog-dev/ironlog/internal/types"
)

func TestCreateAndGetExercise(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "chest,triceps")
	require.NoError(t, err)
	require.NotZero(t, id)

	byID, err := store.GetExerciseByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, "Bench Press", byID.Name)
	require.Equal(t, types.Resistance, byID.Type)

	byName, err := store.GetExerciseByName(ctx, "bench press")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, id, byName.ID)
}

func TestGetExerciseByNameMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)
	def, err := store.GetExerciseByName(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Nil(t, def)
}

func TestCreateExerciseNameCollisionCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Squat", types.Resistance, "legs")
	require.NoError(t, err)

	_, err = store.CreateExercise(ctx, "squat", types.Resistance, "legs")
	require.Error(t, err)
	var nameErr *types.ExerciseNameNotUniqueError
	require.ErrorAs(t, err, &nameErr)
}

func TestListExercisesFiltersByTypeAndMuscle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "chest,triceps")
	require.NoError(t, err)
	_, err = store.CreateExercise(ctx, "Running", types.Cardio, "legs")
	require.NoError(t, err)
	_, err = store.CreateExercise(ctx, "Pull-up", types.BodyWeight, "back,biceps")
	require.NoError(t, err)

	resistance := types.Resistance
	filtered, err := store.ListExercises(ctx, &resistance, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Bench Press", filtered[0].Name)

	muscle := "leg"
	byMuscle, err := store.ListExercises(ctx, nil, &muscle)
	require.NoError(t, err)
	require.Len(t, byMuscle, 1)
	require.Equal(t, "Running", byMuscle[0].Name)

	all, err := store.ListExercises(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdateExerciseRenameCascadesToWorkoutsAndAliases(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Bench Press", types.Resistance, "chest")
	require.NoError(t, err)
	require.NoError(t, store.CreateAlias(ctx, "bp", "Bench Press"))

	w := &types.Workout{ExerciseName: "Bench Press"}
	_, err = store.InsertWorkout(ctx, w)
	require.NoError(t, err)

	newName := "Barbell Bench Press"
	_, err = store.UpdateExercise(ctx, "Bench Press", &newName, nil, nil)
	require.NoError(t, err)

	byNewName, err := store.GetExerciseByName(ctx, newName)
	require.NoError(t, err)
	require.NotNil(t, byNewName)

	aliases, err := store.ListAliases(ctx)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	require.Equal(t, newName, aliases[0].ExerciseName)

	workouts, err := store.ListWorkouts(ctx, types.WorkoutFilters{ExerciseName: &newName})
	require.NoError(t, err)
	require.Len(t, workouts, 1)
}

func TestUpdateExerciseMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	newName := "Whatever"
	_, err := store.UpdateExercise(context.Background(), "Nonexistent", &newName, nil, nil)
	require.ErrorIs(t, err, types.ErrExerciseNotFound)
}

func TestDeleteExerciseRemovesAliasesButKeepsWorkouts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateExercise(ctx, "Deadlift", types.Resistance, "back,legs")
	require.NoError(t, err)
	require.NoError(t, store.CreateAlias(ctx, "dl", "Deadlift"))
	_, err = store.InsertWorkout(ctx, &types.Workout{ExerciseName: "Deadlift"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteExercise(ctx, "Deadlift"))

	def, err := store.GetExerciseByName(ctx, "Deadlift")
	require.NoError(t, err)
	require.Nil(t, def)

	aliases, err := store.ListAliases(ctx)
	require.NoError(t, err)
	require.Empty(t, aliases)

	workouts, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	require.NoError(t, err)
	require.Len(t, workouts, 1)
}
