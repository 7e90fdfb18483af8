// Package engine implements the Workout Engine (§4.3): add_workout and
// edit_workout, including the implicit-creation rule, bodyweight
// composition, unit conversion for distance, and the PB snapshot that
// the caller composes with internal/pb.
package engine

import (
	"context"
	"time"

	"github.com/ironlog-dev/ironlog/internal/resolver"
	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// AddParams carries add_workout's inputs (§4.3).
type AddParams struct {
	Identifier string
	Date       time.Time // calendar day, any time-of-day component is ignored
	Sets       *int
	Reps       *int
	Weight     *float64
	Duration   *float64
	Distance   *float64
	Notes      *string

	// ImplicitType and ImplicitMuscles must be either both set or both
	// nil; if set, they create the exercise when Identifier does not
	// resolve (§4.3 implicit-creation rule).
	ImplicitType    *types.ExerciseType
	ImplicitMuscles *string

	// BodyweightToUse composes with Weight when the resolved exercise is
	// BodyWeight (§4.3 bodyweight-composition rule).
	BodyweightToUse *float64

	// Units is the configured unit system; distance is converted to km
	// for storage when Imperial. Weight is never converted.
	Units types.UnitSystem
}

// Snapshot is the pre-insert maxima used by the PB Detector (§4.4).
type Snapshot struct {
	Weight   *float64
	Reps     *float64
	Duration *float64
	Distance *float64
}

// AddResult is add_workout's outcome: the new row's id, the pre-insert
// maxima snapshot, and the inserted row, which the caller combines via
// internal/pb into a PBInfo.
type AddResult struct {
	WorkoutID int64
	Pre       Snapshot
	Inserted  types.Workout
}

// Add resolves the identifier (implicitly creating the exercise when
// permitted), applies bodyweight composition and distance conversion, and
// inserts the workout. The pre-insert max snapshot is returned alongside
// the inserted row so the caller can compute PBInfo (§4.4) without this
// package needing to know about PB semantics.
func Add(ctx context.Context, store storage.Storage, p AddParams) (AddResult, error) {
	def, err := resolveOrCreate(ctx, store, p.Identifier, p.ImplicitType, p.ImplicitMuscles)
	if err != nil {
		return AddResult{}, err
	}

	weight := p.Weight
	if def.Type == types.BodyWeight {
		if p.BodyweightToUse == nil {
			return AddResult{}, types.ErrBodyweightRequired
		}
		added := 0.0
		if p.Weight != nil {
			added = *p.Weight
		}
		composed := *p.BodyweightToUse + added
		weight = &composed
	}

	distance := convertDistanceToKm(p.Distance, p.Units)

	sets := p.Sets
	if sets == nil {
		one := 1
		sets = &one
	}

	pre, err := snapshot(ctx, store, def.Name)
	if err != nil {
		return AddResult{}, err
	}

	w := types.Workout{
		Timestamp:       storedTimestamp(p.Date),
		ExerciseName:    def.Name,
		Sets:            sets,
		Reps:            p.Reps,
		Weight:          weight,
		DurationMinutes: p.Duration,
		Distance:        distance,
		Notes:           p.Notes,
	}

	id, err := store.InsertWorkout(ctx, &w)
	if err != nil {
		return AddResult{}, err
	}
	w.ID = id

	return AddResult{WorkoutID: id, Pre: pre, Inserted: w}, nil
}

// EditParams carries edit_workout's inputs (§4.3). Unlike Add, edit never
// composes bodyweight — Weight is stored verbatim — but distance
// conversion still applies, and the exercise identifier may be changed to
// any existing exercise (no implicit creation on edit).
type EditParams struct {
	ID              int64
	NewIdentifier   *string
	NewDate         *time.Time
	Sets            *int
	ClearSets       bool
	Reps            *int
	ClearReps       bool
	Weight          *float64
	ClearWeight     bool
	Duration        *float64
	ClearDuration   bool
	Distance        *float64
	ClearDistance   bool
	Notes           *string
	ClearNotes      bool
	Units           types.UnitSystem
}

// Edit applies a partial update to an existing workout (§4.3 edit inputs).
func Edit(ctx context.Context, store storage.Storage, p EditParams) error {
	patch := storage.WorkoutPatch{
		Sets:          p.Sets,
		ClearSets:     p.ClearSets,
		Reps:          p.Reps,
		ClearReps:     p.ClearReps,
		Weight:        p.Weight,
		ClearWeight:   p.ClearWeight,
		DurationMinutes: p.Duration,
		ClearDuration: p.ClearDuration,
		Notes:         p.Notes,
		ClearNotes:    p.ClearNotes,
	}

	if p.NewIdentifier != nil {
		result, err := resolver.Resolve(ctx, store, *p.NewIdentifier)
		if err != nil {
			return err
		}
		if result.Definition == nil {
			return types.ErrExerciseNotFound
		}
		patch.ExerciseName = &result.Definition.Name
	}

	if p.NewDate != nil {
		ts := storedTimestamp(*p.NewDate)
		patch.Timestamp = &ts
	}

	if p.ClearDistance {
		patch.ClearDistance = true
	} else if p.Distance != nil {
		patch.Distance = convertDistanceToKm(p.Distance, p.Units)
	}

	return store.UpdateWorkout(ctx, p.ID, patch)
}

// Delete deletes each id in one transaction and returns the per-id outcome
// (§4.3 batch delete).
func Delete(ctx context.Context, store storage.Storage, ids []int64) map[int64]error {
	return store.DeleteWorkouts(ctx, ids)
}

func resolveOrCreate(ctx context.Context, store storage.Storage, identifier string, implicitType *types.ExerciseType, implicitMuscles *string) (*types.ExerciseDefinition, error) {
	result, err := resolver.Resolve(ctx, store, identifier)
	if err != nil {
		return nil, err
	}
	if result.Definition != nil {
		return result.Definition, nil
	}
	if implicitType == nil || implicitMuscles == nil {
		return nil, types.ErrExerciseNotFound
	}

	id, err := store.CreateExercise(ctx, identifier, *implicitType, *implicitMuscles)
	if err != nil {
		return nil, err
	}
	return &types.ExerciseDefinition{ID: id, Name: identifier, Type: *implicitType, Muscles: *implicitMuscles}, nil
}

// storedTimestamp implements §4.3's rule: "today at 12:00 UTC" if date
// matches the current UTC date, otherwise noon UTC of the given date —
// editing a past day should not depend on wall-clock time.
func storedTimestamp(date time.Time) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// convertDistanceToKm converts an Imperial-miles input to kilometres for
// storage (§4.3, §9 "explicit units at the boundary"); Metric input is
// stored unchanged.
func convertDistanceToKm(distance *float64, units types.UnitSystem) *float64 {
	if distance == nil {
		return nil
	}
	if units != types.Imperial {
		v := *distance
		return &v
	}
	km := *distance * types.KmPerMile
	return &km
}

func snapshot(ctx context.Context, store storage.Storage, name string) (Snapshot, error) {
	weight, err := store.MaxWeight(ctx, name)
	if err != nil {
		return Snapshot{}, err
	}
	reps, err := store.MaxReps(ctx, name)
	if err != nil {
		return Snapshot{}, err
	}
	duration, err := store.MaxDuration(ctx, name)
	if err != nil {
		return Snapshot{}, err
	}
	distance, err := store.MaxDistance(ctx, name)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Weight: weight, Reps: reps, Duration: duration, Distance: distance}, nil
}
