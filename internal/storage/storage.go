package storage

import (
	"context"
	"time"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// Storage is the Persistence Layer's contract (§4.1): durable storage,
// filtered retrieval, transactional multi-row updates, and schema
// bootstrap. Exactly one implementation exists (SQLite); the interface
// exists so the Service Facade and its tests never depend on the backend
// directly (§9 "no ambient singletons" — pass it explicitly, and tests can
// spin up many in-process stores against in-memory databases).
type Storage interface {
	// Bootstrap ensures the schema exists and runs additive migrations.
	Bootstrap(ctx context.Context) error
	Close() error

	// Exercises
	CreateExercise(ctx context.Context, name string, typ types.ExerciseType, muscles string) (int64, error)
	GetExerciseByID(ctx context.Context, id int64) (*types.ExerciseDefinition, error)
	GetExerciseByName(ctx context.Context, name string) (*types.ExerciseDefinition, error)
	ListExercises(ctx context.Context, typ *types.ExerciseType, muscleLike *string) ([]*types.ExerciseDefinition, error)
	// UpdateExercise renames/retypes an exercise and, when the name
	// changes, rewrites every workout and alias row referencing it, all
	// in one transaction (§4.1 rename semantics).
	UpdateExercise(ctx context.Context, canonicalName string, newName, newMuscles *string, newType *types.ExerciseType) (int64, error)
	// DeleteExercise removes the exercise's aliases then the exercise row
	// in one transaction (§4.1 delete semantics). Workout rows are left
	// untouched.
	DeleteExercise(ctx context.Context, canonicalName string) error

	// Aliases
	CreateAlias(ctx context.Context, aliasName, exerciseName string) error
	DeleteAlias(ctx context.Context, aliasName string) error
	ListAliases(ctx context.Context) ([]types.Alias, error)
	AliasExists(ctx context.Context, aliasName string) (bool, error)

	// Workouts
	InsertWorkout(ctx context.Context, w *types.Workout) (int64, error)
	UpdateWorkout(ctx context.Context, id int64, patch WorkoutPatch) error
	DeleteWorkouts(ctx context.Context, ids []int64) map[int64]error
	ListWorkouts(ctx context.Context, filters types.WorkoutFilters) ([]types.Workout, error)
	CalculateDailyVolume(ctx context.Context, filters types.WorkoutFilters) ([]types.DailyVolumeRow, error)
	ListWorkoutsForExerciseOnNthLastDay(ctx context.Context, name string, n int) ([]types.Workout, error)

	MaxWeight(ctx context.Context, name string) (*float64, error)
	MaxReps(ctx context.Context, name string) (*float64, error)
	MaxDuration(ctx context.Context, name string) (*float64, error)
	MaxDistance(ctx context.Context, name string) (*float64, error)

	ListDistinctWorkoutDates(ctx context.Context, name string) ([]time.Time, error)
	DailySeriesValues(ctx context.Context, name string, kind types.GraphKind) (map[time.Time]float64, error)

	GetAllDatesWithExercise(ctx context.Context) ([]time.Time, error)
	ListAllMuscles(ctx context.Context) ([]string, error)

	// Bodyweights
	CreateBodyweightEntry(ctx context.Context, ts time.Time, weight float64) (int64, error)
	ListBodyweights(ctx context.Context, limit *int) ([]types.BodyweightEntry, error)
	GetLatestBodyweight(ctx context.Context) (*float64, error)
	DeleteBodyweight(ctx context.Context, id int64) error
}

// WorkoutPatch carries the optional edit fields for UpdateWorkout (§4.3
// edit inputs). A nil field is left unchanged; use the Clear* flags to
// explicitly null out an optional field.
type WorkoutPatch struct {
	ExerciseName    *string
	Timestamp       *time.Time
	Sets            *int
	ClearSets       bool
	Reps            *int
	ClearReps       bool
	Weight          *float64
	ClearWeight     bool
	DurationMinutes *float64
	ClearDuration   bool
	Distance        *float64
	ClearDistance   bool
	Notes           *string
	ClearNotes      bool
}
