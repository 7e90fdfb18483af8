package sqlite

import (
	"context"
	"time"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// CreateBodyweightEntry inserts a bodyweight row; timestamp uniqueness is
// enforced by idx_bodyweights_timestamp (§3).
func (s *SQLiteStorage) CreateBodyweightEntry(ctx context.Context, ts time.Time, weight float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bodyweights (timestamp, weight) VALUES (?, ?)`,
		formatTime(ts), weight,
	)
	if err != nil {
		if cerr := constraintErrorFor(err, "create bodyweight entry", formatTime(ts)); cerr != nil {
			return 0, cerr
		}
		return 0, wrapDBError(types.ErrDbInsert, "create bodyweight entry", err)
	}
	return res.LastInsertId()
}

// ListBodyweights returns entries ordered most-recent-first, honoring an
// optional row limit.
func (s *SQLiteStorage) ListBodyweights(ctx context.Context, limit *int) ([]types.BodyweightEntry, error) {
	query := `SELECT id, timestamp, weight FROM bodyweights ORDER BY timestamp DESC`
	var args []any
	if limit != nil {
		query += ` LIMIT ?`
		args = append(args, *limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list bodyweights", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.BodyweightEntry
	for rows.Next() {
		var e types.BodyweightEntry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Weight); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan bodyweight row", err)
		}
		parsed, err := parseTime(ts)
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse bodyweight timestamp", err)
		}
		e.Timestamp = parsed
		out = append(out, e)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate bodyweights", rows.Err())
}

// GetLatestBodyweight returns the weight of the most recent entry, or nil
// if none exists.
func (s *SQLiteStorage) GetLatestBodyweight(ctx context.Context) (*float64, error) {
	var weight float64
	err := s.db.QueryRowContext(ctx,
		`SELECT weight FROM bodyweights ORDER BY timestamp DESC LIMIT 1`,
	).Scan(&weight)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBError(types.ErrDbQuery, "get latest bodyweight", err)
	}
	return &weight, nil
}

func (s *SQLiteStorage) DeleteBodyweight(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bodyweights WHERE id = ?`, id)
	if err != nil {
		return wrapDBError(types.ErrDbDelete, "delete bodyweight", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(types.ErrDbDelete, "delete bodyweight rows affected", err)
	}
	if n == 0 {
		return types.ErrBodyweightNotFound
	}
	return nil
}
