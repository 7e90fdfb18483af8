package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// wrapDBError wraps a database error with operation context and the given
// I/O sentinel, returning nil only for a nil err. sql.ErrNoRows is wrapped
// like any other error, so callers that expect "maybe absent" check
// isNoRows before calling it. This is the same
// shape as the teacher's wrapDBError(op, err) in
// internal/storage/sqlite/errors.go.
func wrapDBError(sentinel error, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %v", op, sentinel, err)
}

// constraintErrorFor inspects a SQLite constraint-violation error message
// and maps it to the distinguished domain error named in §4.1/§4.6. SQLite
// (and the ncruces driver) reports unique-constraint violations as
// "UNIQUE constraint failed: <table>.<column>"; matching on the index
// name/column is the least brittle way to tell which constraint fired
// without a driver-specific error type.
func constraintErrorFor(err error, context string, value string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "exercises.name") || strings.Contains(msg, "idx_exercises_name_ci"):
		return &types.ExerciseNameNotUniqueError{Name: value}
	case strings.Contains(msg, "aliases.alias_name") || strings.Contains(msg, "idx_aliases_name_ci"):
		return &types.AliasAlreadyExistsError{Name: value}
	case strings.Contains(msg, "bodyweights.timestamp") || strings.Contains(msg, "idx_bodyweights_timestamp"):
		return &types.BodyweightEntryExistsError{Timestamp: value}
	default:
		return fmt.Errorf("%s: unique constraint violated: %w", context, err)
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
