package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"github.com/ironlog-dev/ironlog/internal/types"
)

// escapeLike escapes SQL LIKE metacharacters so a muscle-substring filter
// containing "%" or "_" is matched literally (§4.1 muscle substring filter).
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// timeLayout is the on-disk timestamp format (§6: "timestamps stored as
// RFC 3339 strings").
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// nullFloat / nullInt / nullString convert an optional domain field into
// the database/sql Null* type used at the query boundary.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// writeExerciseTypeWire renders the canonical wire spelling (§6): accept
// legacy "bodyweight" on read, always emit "body-weight" on write.
func writeExerciseTypeWire(t types.ExerciseType) string {
	return t.String()
}

// workoutScan holds one row of the common workouts column set (id,
// timestamp, exercise_name, sets, reps, weight, duration_minutes,
// distance, notes — the order of workoutColumns); toWorkout converts it
// into a types.Workout.
type workoutScan struct {
	id              int64
	timestamp       string
	exerciseName    string
	sets            sql.NullInt64
	reps            sql.NullInt64
	weight          sql.NullFloat64
	durationMinutes sql.NullFloat64
	distance        sql.NullFloat64
	notes           sql.NullString
}

func (w workoutScan) toWorkout() (types.Workout, error) {
	ts, err := parseTime(w.timestamp)
	if err != nil {
		return types.Workout{}, err
	}
	return types.Workout{
		ID:              w.id,
		Timestamp:       ts,
		ExerciseName:    w.exerciseName,
		Sets:            intPtr(w.sets),
		Reps:            intPtr(w.reps),
		Weight:          floatPtr(w.weight),
		DurationMinutes: floatPtr(w.durationMinutes),
		Distance:        floatPtr(w.distance),
		Notes:           stringPtr(w.notes),
	}, nil
}
