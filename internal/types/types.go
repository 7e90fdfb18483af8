// Package types holds the domain entities and closed tagged unions shared
// across the storage, resolver, engine, and stats packages.
package types

import "time"

// ExerciseType is a closed tag identifying how an exercise's metrics are
// interpreted by the volume, PB, and graph calculations.
type ExerciseType string

const (
	Resistance ExerciseType = "resistance"
	Cardio     ExerciseType = "cardio"
	BodyWeight ExerciseType = "body-weight"
)

// ParseExerciseType maps a wire/storage string to an ExerciseType, accepting
// the legacy "bodyweight" spelling on read per the on-disk wire contract.
func ParseExerciseType(s string) (ExerciseType, bool) {
	switch s {
	case string(Resistance):
		return Resistance, true
	case string(Cardio):
		return Cardio, true
	case string(BodyWeight), "bodyweight":
		return BodyWeight, true
	default:
		return "", false
	}
}

// String renders the canonical wire spelling (never the legacy alias).
func (t ExerciseType) String() string {
	return string(t)
}

// ResolvedVia records which step of the identifier resolution algorithm
// (§4.2) produced a match, so callers can message appropriately.
type ResolvedVia string

const (
	ViaID    ResolvedVia = "id"
	ViaAlias ResolvedVia = "alias"
	ViaName  ResolvedVia = "name"
)

// GraphKind is a closed tag selecting one of the seven time-series
// producers in §4.5.
type GraphKind string

const (
	GraphEstimated1RM    GraphKind = "estimated_1rm"
	GraphMaxWeight       GraphKind = "max_weight"
	GraphMaxReps         GraphKind = "max_reps"
	GraphWorkoutVolume   GraphKind = "workout_volume"
	GraphWorkoutReps     GraphKind = "workout_reps"
	GraphWorkoutDuration GraphKind = "workout_duration"
	GraphWorkoutDistance GraphKind = "workout_distance"
)

// AllGraphKinds enumerates the closed set for exhaustive handling by
// callers that need to, e.g., render a menu of every graph kind.
func AllGraphKinds() []GraphKind {
	return []GraphKind{
		GraphEstimated1RM,
		GraphMaxWeight,
		GraphMaxReps,
		GraphWorkoutVolume,
		GraphWorkoutReps,
		GraphWorkoutDuration,
		GraphWorkoutDistance,
	}
}

// UnitSystem is a closed tag for the configured measurement system.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

const (
	// MilesPerKm converts kilometres to miles: miles = km * MilesPerKm.
	MilesPerKm = 1 / 1.609344
	// KmPerMile converts miles to kilometres: km = miles * KmPerMile.
	KmPerMile = 1.609344
	// LbsPerKg converts kilograms to pounds.
	LbsPerKg = 1 / 0.45359237
	// KgPerLb converts pounds to kilograms.
	KgPerLb = 0.45359237
)

// ExerciseDefinition is the canonical record for a named exercise.
type ExerciseDefinition struct {
	ID      int64
	Name    string
	Type    ExerciseType
	Muscles string // optional free-text, comma list
}

// Workout is a single logged entry against a canonical exercise.
type Workout struct {
	ID              int64
	Timestamp       time.Time // UTC
	ExerciseName    string    // canonical, case-insensitive join key
	Sets            *int
	Reps            *int
	Weight          *float64 // stored as-given, no unit tag (see §3, §9)
	DurationMinutes *float64
	Distance        *float64 // stored in km
	Notes           *string
}

// Alias maps a user-facing token to a canonical exercise name.
type Alias struct {
	AliasName    string
	ExerciseName string
}

// BodyweightEntry is a single bodyweight measurement.
type BodyweightEntry struct {
	ID        int64
	Timestamp time.Time
	Weight    float64
}

// WorkoutFilters is the shared filter set accepted by list_workouts and
// calculate_daily_volume (§4.1).
type WorkoutFilters struct {
	ExerciseName *string
	Date         *time.Time // UTC calendar day
	Type         *ExerciseType
	MuscleLike   *string
	Limit        *int // honoured only when Date is nil
	LimitDays    *int // calculate_daily_volume only; honoured only when Date is nil
}

// DailyVolumeRow is one row of calculate_daily_volume's output.
type DailyVolumeRow struct {
	Date         time.Time
	ExerciseName string
	Volume       float64
}

// MetricPB captures one metric's personal-best comparison for a single add.
type MetricPB struct {
	Achieved       bool
	NewValue       float64
	PreviousValue  *float64
}

// PBInfo is the structured personal-best result for one added/edited entry.
type PBInfo struct {
	Weight   MetricPB
	Reps     MetricPB
	Duration MetricPB
	Distance MetricPB
}

// AnyAchieved reports whether at least one metric in the PB result was a
// personal best (a "PB event" per §4.4).
func (p PBInfo) AnyAchieved() bool {
	return p.Weight.Achieved || p.Reps.Achieved || p.Duration.Achieved || p.Distance.Achieved
}

// PersonalBests is the per-exercise maxima returned by the stats engine.
type PersonalBests struct {
	MaxWeight         *float64
	MaxReps           *float64
	MaxDurationMin    *float64
	MaxDistanceKm     *float64
}

// ExerciseStats is the full per-exercise statistics result (§4.5).
type ExerciseStats struct {
	ExerciseName       string
	TotalWorkouts      int
	FirstWorkoutDate   time.Time
	LastWorkoutDate    time.Time
	AvgWorkoutsPerWeek *float64
	LongestGapDays     *int
	PersonalBests      PersonalBests
	StreakIntervalDays int
	CurrentStreak      int
	LongestStreak      int
}

// GraphPoint is one (x, y) sample of a time-series producer's output.
type GraphPoint struct {
	X int // days since the first qualifying data point
	Y float64
}
