package sqlite

import (
	"context"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// CreateAlias inserts an alias. Uniqueness against other aliases is
// enforced case-insensitively by idx_aliases_name_ci; the id/name
// collision checks in §4.6 are the Alias Manager's responsibility (it has
// to look at the exercises table and parse the token as a number, neither
// of which the store alone can decide).
func (s *SQLiteStorage) CreateAlias(ctx context.Context, aliasName, exerciseName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO aliases (alias_name, exercise_name) VALUES (?, ?)`,
		aliasName, exerciseName,
	)
	if err != nil {
		if cerr := constraintErrorFor(err, "create alias", aliasName); cerr != nil {
			return cerr
		}
		return wrapDBError(types.ErrDbInsert, "create alias", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteAlias(ctx context.Context, aliasName string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM aliases WHERE alias_name = ? COLLATE NOCASE`, aliasName)
	if err != nil {
		return wrapDBError(types.ErrDbDelete, "delete alias", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(types.ErrDbDelete, "delete alias rows affected", err)
	}
	if n == 0 {
		return types.ErrAliasNotFound
	}
	return nil
}

// ListAliases returns every alias ordered lexicographically (§4.6 "List:
// returns a map from alias to canonical name, ordered lexicographically by
// alias" — modeled as an ordered slice since Go maps have no iteration
// order; see DESIGN.md for this Open Question's resolution).
func (s *SQLiteStorage) ListAliases(ctx context.Context) ([]types.Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias_name, exercise_name FROM aliases ORDER BY alias_name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list aliases", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Alias
	for rows.Next() {
		var a types.Alias
		if err := rows.Scan(&a.AliasName, &a.ExerciseName); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan alias row", err)
		}
		out = append(out, a)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate aliases", rows.Err())
}

// AliasExists reports whether an alias exists, case-insensitively.
func (s *SQLiteStorage) AliasExists(ctx context.Context, aliasName string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM aliases WHERE alias_name = ? COLLATE NOCASE LIMIT 1`, aliasName,
	).Scan(&exists)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, wrapDBError(types.ErrDbQuery, "check alias existence", err)
	}
	return true, nil
}
