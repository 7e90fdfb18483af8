// Package sqlite implements storage.Storage over an embedded SQLite
// database via the CGO-free github.com/ncruces/go-sqlite3 driver, the same
// driver the teacher wires in for its SQLite storage backend
// (cmd/bd/doctor/fix/sync.go, validation.go).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/storage/sqlite/migrations"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// SQLiteStorage implements storage.Storage. The caller owns it exclusively
// for the process lifetime (§5) — it is not safe for use from more than
// one goroutine at a time, matching the single-threaded cooperative model.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// Open connects to the database at path and bootstraps its schema.
// Bootstrap's initial connection is retried with a bounded exponential
// backoff against transient SQLITE_BUSY, the same idiom the teacher
// applies to Dolt server-mode connection retries
// (internal/storage/dolt/store.go) applied here to a different transient
// failure.
func Open(ctx context.Context, path string) (*SQLiteStorage, error) {
	dsn := storage.SQLiteConnString(path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", types.ErrDbConnection, path, err)
	}
	// The driver serializes all access through one real connection; since
	// the service already holds this store exclusively (§5), cap the pool
	// at one to make that invariant explicit rather than accidental.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db, path: path}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 5 * time.Second
	bootstrap := func() error {
		return s.Bootstrap(ctx)
	}
	if err := backoff.Retry(bootstrap, backoff.WithContext(b, ctx)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: bootstrap %s: %v", types.ErrDbConnection, path, err)
	}

	return s, nil
}

// Close releases the underlying connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exercises (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	muscles  TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_exercises_name_ci ON exercises (name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS workouts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp        TEXT NOT NULL,
	exercise_name    TEXT NOT NULL,
	sets             INTEGER,
	reps             INTEGER,
	weight           REAL,
	duration_minutes REAL,
	notes            TEXT
);
CREATE INDEX IF NOT EXISTS idx_workouts_timestamp ON workouts (timestamp);
CREATE INDEX IF NOT EXISTS idx_workouts_exercise_name ON workouts (exercise_name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS aliases (
	alias_name    TEXT PRIMARY KEY,
	exercise_name TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_aliases_name_ci ON aliases (alias_name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_aliases_exercise_name ON aliases (exercise_name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS bodyweights (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	weight    REAL NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_bodyweights_timestamp ON bodyweights (timestamp);
`

// Bootstrap ensures the four tables and their indexes exist, then runs the
// one additive migration named in §4.1: add workouts.distance if absent.
// No destructive migration ever runs.
func (s *SQLiteStorage) Bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("%w: %v", types.ErrDbConnection, err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: schema bootstrap: %v", types.ErrDbConnection, err)
	}
	if err := migrations.AddDistanceColumn(ctx, s.db); err != nil {
		return fmt.Errorf("%w: %v", types.ErrDbConnection, err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic — the correctness boundary §9 calls out for
// rename and delete cascades.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", types.ErrDbConnection, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
