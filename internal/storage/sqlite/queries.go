package sqlite

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ironlog-dev/ironlog/internal/types"
)

const workoutColumns = `w.id, w.timestamp, w.exercise_name, w.sets, w.reps, w.weight, w.duration_minutes, w.distance, w.notes`

// ListWorkouts implements the filtered listing contract in §4.1: optional
// exercise name, date, type (joined through exercises), muscle substring
// (joined through exercises), and a row limit honoured only when no date
// filter is set. Ordering is ascending by timestamp when a date filter is
// set (read the day chronologically), descending otherwise.
func (s *SQLiteStorage) ListWorkouts(ctx context.Context, f types.WorkoutFilters) ([]types.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts w`
	needsJoin := f.Type != nil || f.MuscleLike != nil
	if needsJoin {
		query += ` JOIN exercises e ON e.name = w.exercise_name COLLATE NOCASE`
	}
	query += ` WHERE 1=1`

	var args []any
	if f.ExerciseName != nil {
		query += ` AND w.exercise_name = ? COLLATE NOCASE`
		args = append(args, *f.ExerciseName)
	}
	if f.Date != nil {
		query += ` AND date(w.timestamp) = date(?)`
		args = append(args, formatTime(*f.Date))
	}
	if f.Type != nil {
		query += ` AND e.type = ?`
		args = append(args, writeExerciseTypeWire(*f.Type))
	}
	if f.MuscleLike != nil {
		query += ` AND e.muscles LIKE ? ESCAPE '\' COLLATE NOCASE`
		args = append(args, "%"+escapeLike(*f.MuscleLike)+"%")
	}

	if f.Date != nil {
		query += ` ORDER BY w.timestamp ASC`
	} else {
		query += ` ORDER BY w.timestamp DESC`
		if f.Limit != nil {
			query += ` LIMIT ?`
			args = append(args, *f.Limit)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list workouts", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Workout
	for rows.Next() {
		var sc workoutScan
		if err := rows.Scan(&sc.id, &sc.timestamp, &sc.exerciseName, &sc.sets, &sc.reps, &sc.weight, &sc.durationMinutes, &sc.distance, &sc.notes); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan workout row", err)
		}
		w, err := sc.toWorkout()
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse workout timestamp", err)
		}
		out = append(out, w)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate workouts", rows.Err())
}

// CalculateDailyVolume implements §4.1's daily-volume aggregate: volume =
// Σ(sets·reps·weight) for resistance/bodyweight rows, 0 for cardio,
// grouped by (date, exercise_name), ordered date descending then exercise
// name ascending. limit_days caps the number of distinct dates returned,
// and is honoured only when no date filter is set.
func (s *SQLiteStorage) CalculateDailyVolume(ctx context.Context, f types.WorkoutFilters) ([]types.DailyVolumeRow, error) {
	query := `
		SELECT date(w.timestamp) AS d, w.exercise_name,
		       CASE WHEN e.type = ? THEN 0
		            ELSE COALESCE(SUM(COALESCE(w.sets, 1) * COALESCE(w.reps, 0) * COALESCE(w.weight, 0)), 0)
		       END AS volume
		FROM workouts w
		JOIN exercises e ON e.name = w.exercise_name COLLATE NOCASE
		WHERE 1=1`
	args := []any{writeExerciseTypeWire(types.Cardio)}

	if f.ExerciseName != nil {
		query += ` AND w.exercise_name = ? COLLATE NOCASE`
		args = append(args, *f.ExerciseName)
	}
	if f.Date != nil {
		query += ` AND date(w.timestamp) = date(?)`
		args = append(args, formatTime(*f.Date))
	}
	if f.Type != nil {
		query += ` AND e.type = ?`
		args = append(args, writeExerciseTypeWire(*f.Type))
	}
	if f.MuscleLike != nil {
		query += ` AND e.muscles LIKE ? ESCAPE '\' COLLATE NOCASE`
		args = append(args, "%"+escapeLike(*f.MuscleLike)+"%")
	}

	query += ` GROUP BY date(w.timestamp), w.exercise_name ORDER BY d DESC, w.exercise_name COLLATE NOCASE ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "calculate daily volume", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.DailyVolumeRow
	for rows.Next() {
		var dateStr, name string
		var volume float64
		if err := rows.Scan(&dateStr, &name, &volume); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan daily volume row", err)
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse daily volume date", err)
		}
		out = append(out, types.DailyVolumeRow{Date: d, ExerciseName: name, Volume: volume})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "iterate daily volume", err)
	}

	if f.Date == nil && f.LimitDays != nil {
		out = restrictToTopNDates(out, *f.LimitDays)
	}
	return out, nil
}

// restrictToTopNDates keeps only the rows whose date is among the n most
// recent distinct dates present in rows (rows is already date-descending).
func restrictToTopNDates(rows []types.DailyVolumeRow, n int) []types.DailyVolumeRow {
	if n <= 0 {
		return nil
	}
	seen := make(map[string]bool, n)
	var kept []types.DailyVolumeRow
	for _, r := range rows {
		key := r.Date.Format("2006-01-02")
		if !seen[key] {
			if len(seen) == n {
				break
			}
			seen[key] = true
		}
		kept = append(kept, r)
	}
	return kept
}

// ListWorkoutsForExerciseOnNthLastDay implements §4.1: rank distinct dates
// for the exercise descending, pick the one at offset n-1, and return all
// rows on that date in chronological order. n must be >= 1.
func (s *SQLiteStorage) ListWorkoutsForExerciseOnNthLastDay(ctx context.Context, name string, n int) ([]types.Workout, error) {
	if n < 1 {
		return nil, types.ErrInvalidN
	}

	var dateStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT d FROM (
			SELECT DISTINCT date(timestamp) AS d
			FROM workouts
			WHERE exercise_name = ? COLLATE NOCASE
			ORDER BY d DESC
			LIMIT 1 OFFSET ?
		)`, name, n-1,
	).Scan(&dateStr)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBError(types.ErrDbQuery, "find nth last day", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+workoutColumns+` FROM workouts w
		WHERE w.exercise_name = ? COLLATE NOCASE AND date(w.timestamp) = date(?)
		ORDER BY w.timestamp ASC`, name, dateStr,
	)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list nth last day rows", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Workout
	for rows.Next() {
		var sc workoutScan
		if err := rows.Scan(&sc.id, &sc.timestamp, &sc.exerciseName, &sc.sets, &sc.reps, &sc.weight, &sc.durationMinutes, &sc.distance, &sc.notes); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan nth last day row", err)
		}
		w, err := sc.toWorkout()
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse nth last day timestamp", err)
		}
		out = append(out, w)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate nth last day rows", rows.Err())
}

func (s *SQLiteStorage) maxOf(ctx context.Context, column, name string) (*float64, error) {
	var v *float64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(`+column+`) FROM workouts WHERE exercise_name = ? COLLATE NOCASE`, name,
	).Scan(&v)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "max "+column, err)
	}
	return v, nil
}

func (s *SQLiteStorage) MaxWeight(ctx context.Context, name string) (*float64, error) {
	return s.maxOf(ctx, "weight", name)
}

func (s *SQLiteStorage) MaxReps(ctx context.Context, name string) (*float64, error) {
	return s.maxOf(ctx, "reps", name)
}

func (s *SQLiteStorage) MaxDuration(ctx context.Context, name string) (*float64, error) {
	return s.maxOf(ctx, "duration_minutes", name)
}

func (s *SQLiteStorage) MaxDistance(ctx context.Context, name string) (*float64, error) {
	return s.maxOf(ctx, "distance", name)
}

// ListDistinctWorkoutDates returns the distinct calendar dates (ascending)
// on which the given exercise was performed; used by the streak and gap
// calculations in §4.5.
func (s *SQLiteStorage) ListDistinctWorkoutDates(ctx context.Context, name string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT date(timestamp) AS d FROM workouts
		WHERE exercise_name = ? COLLATE NOCASE
		ORDER BY d ASC`, name,
	)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list distinct workout dates", err)
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan distinct date", err)
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse distinct date", err)
		}
		out = append(out, d)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate distinct dates", rows.Err())
}

// DailySeriesValues computes the per-day aggregate named in §4.5's graph
// table for one exercise and graph kind, keyed by calendar date. Days with
// no defined value for the metric are simply absent from the map.
func (s *SQLiteStorage) DailySeriesValues(ctx context.Context, name string, kind types.GraphKind) (map[time.Time]float64, error) {
	var expr string
	switch kind {
	case types.GraphEstimated1RM:
		expr = `MAX(weight * (1.0 + reps / 30.0))`
	case types.GraphMaxWeight:
		expr = `MAX(weight)`
	case types.GraphMaxReps:
		expr = `MAX(reps)`
	case types.GraphWorkoutVolume:
		expr = `SUM(COALESCE(sets, 1) * reps * weight)`
	case types.GraphWorkoutReps:
		expr = `SUM(COALESCE(sets, 1) * reps)`
	case types.GraphWorkoutDuration:
		expr = `MAX(duration_minutes)`
	case types.GraphWorkoutDistance:
		expr = `MAX(distance)`
	default:
		return nil, wrapDBError(types.ErrDbQuery, "daily series values", errUnknownGraphKind(kind))
	}

	var filterCol string
	switch kind {
	case types.GraphEstimated1RM:
		filterCol = "weight IS NOT NULL AND reps IS NOT NULL"
	case types.GraphMaxWeight:
		filterCol = "weight IS NOT NULL"
	case types.GraphMaxReps:
		filterCol = "reps IS NOT NULL"
	case types.GraphWorkoutVolume:
		filterCol = "reps IS NOT NULL AND weight IS NOT NULL"
	case types.GraphWorkoutReps:
		filterCol = "reps IS NOT NULL"
	case types.GraphWorkoutDuration:
		filterCol = "duration_minutes IS NOT NULL"
	case types.GraphWorkoutDistance:
		filterCol = "distance IS NOT NULL"
	}

	query := `
		SELECT date(timestamp) AS d, ` + expr + `
		FROM workouts
		WHERE exercise_name = ? COLLATE NOCASE AND ` + filterCol + `
		GROUP BY date(timestamp)
		ORDER BY d ASC`

	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "daily series values", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[time.Time]float64)
	for rows.Next() {
		var dateStr string
		var v float64
		if err := rows.Scan(&dateStr, &v); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan daily series row", err)
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse daily series date", err)
		}
		out[d] = v
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate daily series", rows.Err())
}

func errUnknownGraphKind(kind types.GraphKind) error {
	return &unknownGraphKindError{kind: kind}
}

type unknownGraphKindError struct{ kind types.GraphKind }

func (e *unknownGraphKindError) Error() string { return "unknown graph kind: " + string(e.kind) }

// GetAllDatesWithExercise returns the set of distinct workout dates across
// all exercises (§4.5 aggregate helper).
func (s *SQLiteStorage) GetAllDatesWithExercise(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT date(timestamp) AS d FROM workouts ORDER BY d ASC`)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "get all dates with exercise", err)
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan all-dates row", err)
		}
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "parse all-dates date", err)
		}
		out = append(out, d)
	}
	return out, wrapDBError(types.ErrDbQuery, "iterate all dates", rows.Err())
}

// ListAllMuscles returns the sorted, deduplicated, case-folded set of
// muscle tags parsed from every exercise's comma-separated muscles field
// (§4.5 aggregate helper).
func (s *SQLiteStorage) ListAllMuscles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT muscles FROM exercises WHERE muscles != ''`)
	if err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "list all muscles", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, wrapDBError(types.ErrDbQuery, "scan muscles row", err)
		}
		for _, tok := range strings.Split(raw, ",") {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok != "" {
				seen[tok] = true
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(types.ErrDbQuery, "iterate muscles", err)
	}

	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}
