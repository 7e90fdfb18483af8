// Package migrations holds IronLog's additive schema migrations, one file
// per migration, numbered in application order — the same layout the
// teacher uses for its SQLite migrations (internal/storage/sqlite/migrations
// in beads), just with a much shorter history since this schema never grew
// organically.
package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddDistanceColumn adds workouts.distance as a nullable REAL column if it
// is not already present (§4.1: "if the workouts table lacks a distance
// column it adds it as nullable"). No destructive migration ever runs.
func AddDistanceColumn(ctx context.Context, db *sql.DB) (retErr error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info(workouts)")
	if err != nil {
		return fmt.Errorf("checking workouts schema: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			retErr = errors.Join(retErr, fmt.Errorf("closing schema rows: %w", closeErr))
		}
	}()

	var hasDistance bool
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt *string
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == "distance" {
			hasDistance = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading column info: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing schema rows: %w", err)
	}

	if hasDistance {
		return nil
	}

	if _, err := db.ExecContext(ctx, `ALTER TABLE workouts ADD COLUMN distance REAL`); err != nil {
		return fmt.Errorf("adding distance column: %w", err)
	}
	return nil
}
