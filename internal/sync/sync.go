// Package sync produces and consumes the sync wire payload described in
// §6, without implementing the network transport — per the spec, "the
// core itself does not implement the server; it only produces and
// consumes payloads whose field names are stable." Any future HTTP
// client is the only thing that would call http.Post with this payload.
package sync

import (
	"context"
	"time"

	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// ExerciseWire is one exercise row on the wire.
type ExerciseWire struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Muscles string `json:"muscles"`
}

// WorkoutWire is one workout row on the wire; RFC 3339 UTC timestamps
// (§6 persistent file formats).
type WorkoutWire struct {
	ID              int64    `json:"id"`
	Timestamp       string   `json:"timestamp"`
	ExerciseName    string   `json:"exercise_name"`
	Sets            *int     `json:"sets,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// AliasWire is one alias row on the wire.
type AliasWire struct {
	AliasName    string `json:"alias_name"`
	ExerciseName string `json:"exercise_name"`
}

// BodyweightWire is one bodyweight entry on the wire.
type BodyweightWire struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Weight    float64 `json:"weight"`
}

// ConfigWire is the optional config blob in a ChangeSet (§6: "config?:
// {content, last_edited}"). Content is the raw TOML document text so the
// sync layer never needs to know the config schema.
type ConfigWire struct {
	Content    string    `json:"content"`
	LastEdited time.Time `json:"last_edited"`
}

// ChangeSet is the `changes` / `data_to_client` shape shared by both the
// request and response bodies of `POST /sync` (§6).
type ChangeSet struct {
	Config      *ConfigWire      `json:"config,omitempty"`
	Exercises   []ExerciseWire   `json:"exercises"`
	Workouts    []WorkoutWire    `json:"workouts"`
	Aliases     []AliasWire      `json:"aliases"`
	Bodyweights []BodyweightWire `json:"bodyweights"`
}

// BuildChangeSet collects every row touched since the given cutoff (nil
// means "since the beginning of time") into the wire shape. Exercises and
// aliases carry no per-row modification timestamp in this schema, so they
// are always included in full; workouts and bodyweights are filtered by
// their own timestamp column, which is the only per-row instant this
// schema tracks.
func BuildChangeSet(ctx context.Context, store storage.Storage, since *time.Time) (ChangeSet, error) {
	exercises, err := store.ListExercises(ctx, nil, nil)
	if err != nil {
		return ChangeSet{}, err
	}
	exerciseWire := make([]ExerciseWire, 0, len(exercises))
	for _, e := range exercises {
		exerciseWire = append(exerciseWire, ExerciseWire{ID: e.ID, Name: e.Name, Type: e.Type.String(), Muscles: e.Muscles})
	}

	aliases, err := store.ListAliases(ctx)
	if err != nil {
		return ChangeSet{}, err
	}
	aliasWire := make([]AliasWire, 0, len(aliases))
	for _, a := range aliases {
		aliasWire = append(aliasWire, AliasWire{AliasName: a.AliasName, ExerciseName: a.ExerciseName})
	}

	workouts, err := store.ListWorkouts(ctx, types.WorkoutFilters{})
	if err != nil {
		return ChangeSet{}, err
	}
	workoutWire := make([]WorkoutWire, 0, len(workouts))
	for _, w := range workouts {
		if since != nil && !w.Timestamp.After(*since) {
			continue
		}
		workoutWire = append(workoutWire, toWorkoutWire(w))
	}

	bodyweights, err := store.ListBodyweights(ctx, nil)
	if err != nil {
		return ChangeSet{}, err
	}
	bwWire := make([]BodyweightWire, 0, len(bodyweights))
	for _, b := range bodyweights {
		if since != nil && !b.Timestamp.After(*since) {
			continue
		}
		bwWire = append(bwWire, BodyweightWire{ID: b.ID, Timestamp: b.Timestamp.UTC().Format(time.RFC3339), Weight: b.Weight})
	}

	return ChangeSet{
		Exercises:   exerciseWire,
		Workouts:    workoutWire,
		Aliases:     aliasWire,
		Bodyweights: bwWire,
	}, nil
}

func toWorkoutWire(w types.Workout) WorkoutWire {
	return WorkoutWire{
		ID:              w.ID,
		Timestamp:       w.Timestamp.UTC().Format(time.RFC3339),
		ExerciseName:    w.ExerciseName,
		Sets:            w.Sets,
		Reps:            w.Reps,
		Weight:          w.Weight,
		DurationMinutes: w.DurationMinutes,
		Distance:        w.Distance,
		Notes:           w.Notes,
	}
}

// ApplyServerChanges applies a received ChangeSet transactionally from the
// caller's point of view: exercises and aliases the local database
// doesn't already have are created; workouts are inserted as new local
// rows (this schema has no cross-device id space to de-duplicate
// against), and bodyweight entries are inserted unless one already exists
// at the same timestamp. Where the local database already has an
// exercise (by name), an alias, or a bodyweight timestamp, the local copy
// is kept and the server's copy is skipped.
func ApplyServerChanges(ctx context.Context, store storage.Storage, cs ChangeSet) error {
	for _, e := range cs.Exercises {
		existing, err := store.GetExerciseByName(ctx, e.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		typ, ok := types.ParseExerciseType(e.Type)
		if !ok {
			continue
		}
		if _, err := store.CreateExercise(ctx, e.Name, typ, e.Muscles); err != nil {
			return err
		}
	}

	for _, a := range cs.Aliases {
		exists, err := store.AliasExists(ctx, a.AliasName)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := store.CreateAlias(ctx, a.AliasName, a.ExerciseName); err != nil {
			return err
		}
	}

	for _, w := range cs.Workouts {
		ts, err := time.Parse(time.RFC3339, w.Timestamp)
		if err != nil {
			return err
		}
		workout := types.Workout{
			Timestamp:       ts,
			ExerciseName:    w.ExerciseName,
			Sets:            w.Sets,
			Reps:            w.Reps,
			Weight:          w.Weight,
			DurationMinutes: w.DurationMinutes,
			Distance:        w.Distance,
			Notes:           w.Notes,
		}
		if _, err := store.InsertWorkout(ctx, &workout); err != nil {
			return err
		}
	}

	for _, b := range cs.Bodyweights {
		ts, err := time.Parse(time.RFC3339, b.Timestamp)
		if err != nil {
			return err
		}
		if _, err := store.CreateBodyweightEntry(ctx, ts, b.Weight); err != nil {
			if _, dup := err.(*types.BodyweightEntryExistsError); dup {
				continue
			}
			return err
		}
	}

	return nil
}
