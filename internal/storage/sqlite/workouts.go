package sqlite

import (
	"context"
	"database/sql"

	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// InsertWorkout inserts a single workout row. The Workout Engine (§4.3) is
// responsible for resolving the exercise, applying unit conversion and
// bodyweight composition, and defaulting sets to 1 before calling this;
// the store just persists what it is given.
func (s *SQLiteStorage) InsertWorkout(ctx context.Context, w *types.Workout) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (
			timestamp, exercise_name, sets, reps, weight, duration_minutes, distance, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		formatTime(w.Timestamp), w.ExerciseName,
		nullInt(w.Sets), nullInt(w.Reps), nullFloat(w.Weight),
		nullFloat(w.DurationMinutes), nullFloat(w.Distance), nullString(w.Notes),
	)
	if err != nil {
		return 0, wrapDBError(types.ErrDbInsert, "insert workout", err)
	}
	return res.LastInsertId()
}

// UpdateWorkout applies a partial edit (§4.3 edit inputs). A nil patch
// field leaves the column unchanged; the Clear* flags explicitly null one
// out (e.g. removing a note).
func (s *SQLiteStorage) UpdateWorkout(ctx context.Context, id int64, patch storage.WorkoutPatch) error {
	set := map[string]any{}
	if patch.ExerciseName != nil {
		set["exercise_name"] = *patch.ExerciseName
	}
	if patch.Timestamp != nil {
		set["timestamp"] = formatTime(*patch.Timestamp)
	}
	if patch.ClearSets {
		set["sets"] = nil
	} else if patch.Sets != nil {
		set["sets"] = *patch.Sets
	}
	if patch.ClearReps {
		set["reps"] = nil
	} else if patch.Reps != nil {
		set["reps"] = *patch.Reps
	}
	if patch.ClearWeight {
		set["weight"] = nil
	} else if patch.Weight != nil {
		set["weight"] = *patch.Weight
	}
	if patch.ClearDuration {
		set["duration_minutes"] = nil
	} else if patch.DurationMinutes != nil {
		set["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.ClearDistance {
		set["distance"] = nil
	} else if patch.Distance != nil {
		set["distance"] = *patch.Distance
	}
	if patch.ClearNotes {
		set["notes"] = nil
	} else if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	if len(set) == 0 {
		return nil
	}

	query := "UPDATE workouts SET "
	args := make([]any, 0, len(set)+1)
	first := true
	for _, col := range []string{"exercise_name", "timestamp", "sets", "reps", "weight", "duration_minutes", "distance", "notes"} {
		v, ok := set[col]
		if !ok {
			continue
		}
		if !first {
			query += ", "
		}
		first = false
		query += col + " = ?"
		args = append(args, v)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDBError(types.ErrDbUpdate, "update workout", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(types.ErrDbUpdate, "update workout rows affected", err)
	}
	if n == 0 {
		return &types.WorkoutNotFoundError{ID: id}
	}
	return nil
}

// DeleteWorkouts deletes each id inside a single transaction (§4.3 batch
// delete), returning the per-id outcome. A missing id does not abort the
// others — each is reported independently, matching §6's
// `delete_workouts(ids[]) -> {id: outcome}` contract — but the whole batch
// still commits or rolls back atomically as one transaction.
func (s *SQLiteStorage) DeleteWorkouts(ctx context.Context, ids []int64) map[int64]error {
	outcomes := make(map[int64]error, len(ids))
	txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
			if err != nil {
				outcomes[id] = wrapDBError(types.ErrDbDelete, "delete workout", err)
				continue
			}
			n, err := res.RowsAffected()
			if err != nil {
				outcomes[id] = wrapDBError(types.ErrDbDelete, "delete workout rows affected", err)
				continue
			}
			if n == 0 {
				outcomes[id] = &types.WorkoutNotFoundError{ID: id}
				continue
			}
			outcomes[id] = nil
		}
		return nil
	})
	if txErr != nil {
		// The transaction did not commit, so no id was deleted.
		for _, id := range ids {
			if outcomes[id] == nil {
				outcomes[id] = txErr
			}
		}
	}
	return outcomes
}
