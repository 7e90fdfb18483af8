package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// CreateExercise inserts a new exercise definition. name uniqueness is
// enforced case-insensitively by idx_exercises_name_ci (§4.1).
func (s *SQLiteStorage) CreateExercise(ctx context.Context, name string, typ types.ExerciseType, muscles string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (name, type, muscles) VALUES (?, ?, ?)`,
		name, writeExerciseTypeWire(typ), muscles,
	)
	if err != nil {
		if cerr := constraintErrorFor(err, "create exercise", name); cerr != nil {
			return 0, cerr
		}
		return 0, wrapDBError(types.ErrDbInsert, "create exercise", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStorage) GetExerciseByID(ctx context.Context, id int64) (*types.ExerciseDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, muscles FROM exercises WHERE id = ?`, id)
	return scanExercise(row)
}

// GetExerciseByName looks up by case-insensitive name (§4.2 step 3).
func (s *SQLiteStorage) GetExerciseByName(ctx context.Context, name string) (*types.ExerciseDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, muscles FROM exercises WHERE name = ? COLLATE NOCASE`, name)
	return scanExercise(row)
}

func scanExercise(row *sql.Row) (*types.ExerciseDefinition, error) {
	var e types.ExerciseDefinition
	var wireType string
	if err := row.Scan(&e.ID, &e.Name, &wireType, &e.Muscles); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBError(types.ErrDbQuery, "get exercise", err)
	}
	typ, ok := types.ParseExerciseType(wireType)
	if !ok {
		return nil, fmt.Errorf("exercise %d: unrecognized type %q", e.ID, wireType)
	}
	e.Type = typ
	return &e, nil
}

// ListExercises supports an optional type filter and an optional
// case-insensitive muscles-contains filter (§4.1 filtered listing, applied
// to the exercise catalog rather than workouts).
func (s *SQLiteStorage) ListExercises(ctx context.Context, typ *types.ExerciseType, muscleLike *string) ([]*types.ExerciseDefinition, error) {
	query := `SELECT id, name, type, muscles FROM exercises WHERE 1=1`
	var args []any
	if typ != nil {
		query += ` AND type = ?`
		args = append(args, writeExerciseTypeWire(*typ))
	}
	if muscleLike != nil {
		query += ` AND muscles LIKE ? ESCAPE '\' COLLATE NOCASE`
		args = append(args, "%"+escapeLike(*muscleLike)+"%")
	}
	query += ` ORDER BY name COLLATE NOCASE ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list exercises", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.ExerciseDefinition
	for rows.Next() {
		var e types.ExerciseDefinition
		var wireType string
		if err := rows.Scan(&e.ID, &e.Name, &wireType, &e.Muscles); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan exercise row", err)
		}
		parsed, ok := types.ParseExerciseType(wireType)
		if !ok {
			return nil, fmt.Errorf("exercise %d: unrecognized type %q", e.ID, wireType)
		}
		e.Type = parsed
		out = append(out, &e)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate exercises", rows.Err())
}

// UpdateExercise runs the rename-cascade in one transaction (§4.1): update
// the exercises row, and if the name changed, rewrite every workout and
// alias row referencing the old name (case-insensitive match).
func (s *SQLiteStorage) UpdateExercise(ctx context.Context, canonicalName string, newName, newMuscles *string, newType *types.ExerciseType) (int64, error) {
	var rowsAffected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := queryExerciseByNameTx(ctx, tx, canonicalName)
		if err != nil {
			return err
		}
		if existing == nil {
			return types.ErrExerciseNotFound
		}

		name := existing.Name
		if newName != nil {
			name = *newName
		}
		muscles := existing.Muscles
		if newMuscles != nil {
			muscles = *newMuscles
		}
		typ := existing.Type
		if newType != nil {
			typ = *newType
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE exercises SET name = ?, type = ?, muscles = ? WHERE id = ?`,
			name, writeExerciseTypeWire(typ), muscles, existing.ID,
		)
		if err != nil {
			if cerr := constraintErrorFor(err, "update exercise", name); cerr != nil {
				return cerr
			}
			return wrapDBError(types.ErrDbUpdate, "update exercise", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return wrapDBError(types.ErrDbUpdate, "update exercise rows affected", err)
		}
		rowsAffected = n

		if newName != nil && !strings.EqualFold(*newName, canonicalName) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE workouts SET exercise_name = ? WHERE exercise_name = ? COLLATE NOCASE`,
				*newName, canonicalName,
			); err != nil {
				return wrapDBError(types.ErrDbUpdate, "rename workouts", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE aliases SET exercise_name = ? WHERE exercise_name = ? COLLATE NOCASE`,
				*newName, canonicalName,
			); err != nil {
				return wrapDBError(types.ErrDbUpdate, "rename aliases", err)
			}
		}
		return nil
	})
	return rowsAffected, err
}

// DeleteExercise deletes the matching aliases then the exercise row in one
// transaction (§4.1 delete semantics). Workout rows are left untouched.
func (s *SQLiteStorage) DeleteExercise(ctx context.Context, canonicalName string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := queryExerciseByNameTx(ctx, tx, canonicalName)
		if err != nil {
			return err
		}
		if existing == nil {
			return types.ErrExerciseNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM aliases WHERE exercise_name = ? COLLATE NOCASE`, canonicalName,
		); err != nil {
			return wrapDBError(types.ErrDbDelete, "delete aliases for exercise", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM exercises WHERE id = ?`, existing.ID,
		); err != nil {
			return wrapDBError(types.ErrDbDelete, "delete exercise", err)
		}
		return nil
	})
}

func queryExerciseByNameTx(ctx context.Context, tx *sql.Tx, name string) (*types.ExerciseDefinition, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, name, type, muscles FROM exercises WHERE name = ? COLLATE NOCASE`, name)
	var e types.ExerciseDefinition
	var wireType string
	if err := row.Scan(&e.ID, &e.Name, &wireType, &e.Muscles); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBError(types.ErrDbQuery, "get exercise for update", err)
	}
	typ, ok := types.ParseExerciseType(wireType)
	if !ok {
		return nil, fmt.Errorf("exercise %d: unrecognized type %q", e.ID, wireType)
	}
	e.Type = typ
	return &e, nil
}

