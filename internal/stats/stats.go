// Package stats implements the Statistics Engine (§4.5): per-exercise
// summary statistics, streak calculation, and the seven graph-kind
// time-series producers.
package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ironlog-dev/ironlog/internal/resolver"
	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// ExerciseStats computes get_exercise_stats for the resolved identifier
// (§4.5). streakIntervalDays is the configured N (§4.7).
func ExerciseStats(ctx context.Context, store storage.Storage, identifier string, streakIntervalDays int, now time.Time) (types.ExerciseStats, error) {
	result, err := resolver.Resolve(ctx, store, identifier)
	if err != nil {
		return types.ExerciseStats{}, err
	}
	if result.Definition == nil {
		return types.ExerciseStats{}, types.ErrExerciseNotFound
	}
	name := result.Definition.Name

	dates, err := store.ListDistinctWorkoutDates(ctx, name)
	if err != nil {
		return types.ExerciseStats{}, err
	}
	if len(dates) == 0 {
		return types.ExerciseStats{}, types.ErrNoWorkoutData
	}

	total, err := countWorkouts(ctx, store, name)
	if err != nil {
		return types.ExerciseStats{}, err
	}

	first, last := dates[0], dates[len(dates)-1]

	var avgPerWeek *float64
	if len(dates) >= 2 {
		spanDays := last.Sub(first).Hours()/24 + 1
		weeks := spanDays / 7
		v := float64(total) / weeks
		avgPerWeek = &v
	}

	longestGap := longestGapDays(dates)

	pbs, err := personalBests(ctx, store, name)
	if err != nil {
		return types.ExerciseStats{}, err
	}

	current, longest := streaks(dates, streakIntervalDays, now)

	return types.ExerciseStats{
		ExerciseName:       name,
		TotalWorkouts:      total,
		FirstWorkoutDate:   first,
		LastWorkoutDate:    last,
		AvgWorkoutsPerWeek: avgPerWeek,
		LongestGapDays:     longestGap,
		PersonalBests:      pbs,
		StreakIntervalDays: streakIntervalDays,
		CurrentStreak:      current,
		LongestStreak:      longest,
	}, nil
}

func countWorkouts(ctx context.Context, store storage.Storage, name string) (int, error) {
	rows, err := store.ListWorkouts(ctx, types.WorkoutFilters{ExerciseName: &name})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// longestGapDays is the max over consecutive distinct dates of
// (next - prev) - 1; undefined (nil) with a single date.
func longestGapDays(dates []time.Time) *int {
	if len(dates) < 2 {
		return nil
	}
	max := 0
	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Sub(dates[i-1]).Hours()/24) - 1
		if gap > max {
			max = gap
		}
	}
	return &max
}

// streaks implements §4.5's run-length algorithm: two dates are
// consecutive within the streak iff their difference is <= N days. A
// streak is a maximal run of pairwise-consecutive dates. current_streak
// is the most recent run's length iff today is within N days of its last
// date, otherwise 0.
func streaks(dates []time.Time, n int, now time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	runLength := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		gapDays := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if gapDays <= n {
			runLength++
		} else {
			runLength = 1
		}
		if runLength > longest {
			longest = runLength
		}
	}

	lastDate := dates[len(dates)-1]
	todayGap := int(now.UTC().Truncate(24*time.Hour).Sub(lastDate.Truncate(24*time.Hour)).Hours() / 24)
	if todayGap > n {
		return 0, longest
	}

	run := 1
	for i := len(dates) - 1; i > 0; i-- {
		gapDays := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if gapDays <= n {
			run++
		} else {
			break
		}
	}
	return run, longest
}

func personalBests(ctx context.Context, store storage.Storage, name string) (types.PersonalBests, error) {
	weight, err := store.MaxWeight(ctx, name)
	if err != nil {
		return types.PersonalBests{}, err
	}
	reps, err := store.MaxReps(ctx, name)
	if err != nil {
		return types.PersonalBests{}, err
	}
	duration, err := store.MaxDuration(ctx, name)
	if err != nil {
		return types.PersonalBests{}, err
	}
	distance, err := store.MaxDistance(ctx, name)
	if err != nil {
		return types.PersonalBests{}, err
	}
	return types.PersonalBests{
		MaxWeight:      weight,
		MaxReps:        reps,
		MaxDurationMin: duration,
		MaxDistanceKm:  distance,
	}, nil
}

// GraphData implements get_data_for_graph (§4.5): per-day aggregate values
// for the given exercise and graph kind, converted to miles when kind is
// WorkoutDistance and the configured unit system is Imperial — every other
// kind is unit-agnostic, and distance is stored in km regardless of
// configuration (§9 "explicit units at the boundary").
func GraphData(ctx context.Context, store storage.Storage, identifier string, kind types.GraphKind, units types.UnitSystem) ([]types.GraphPoint, error) {
	result, err := resolver.Resolve(ctx, store, identifier)
	if err != nil {
		return nil, err
	}
	if result.Definition == nil {
		return nil, types.ErrExerciseNotFound
	}

	series, err := store.DailySeriesValues(ctx, result.Definition.Name, kind)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}

	dates := make([]time.Time, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	first := dates[0]
	points := make([]types.GraphPoint, 0, len(dates))
	for _, d := range dates {
		v := series[d]
		if kind == types.GraphWorkoutDistance && units == types.Imperial {
			v = v * types.MilesPerKm
		}
		x := int(math.Round(d.Sub(first).Hours() / 24))
		points = append(points, types.GraphPoint{X: x, Y: v})
	}
	return points, nil
}

// AllDatesWithExercise implements get_all_dates_with_exercise (§4.5).
func AllDatesWithExercise(ctx context.Context, store storage.Storage) ([]time.Time, error) {
	return store.GetAllDatesWithExercise(ctx)
}

// AllMuscles implements list_all_muscles (§4.5).
func AllMuscles(ctx context.Context, store storage.Storage) ([]string, error) {
	return store.ListAllMuscles(ctx)
}
