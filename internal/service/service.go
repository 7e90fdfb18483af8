// Package service implements the Service Facade (§6, §9): the single
// object that owns the database connection and the config document for
// the process lifetime and enforces the cross-layer invariants (Alias
// Manager collision checks, PB notify-gating) that no individual layer
// owns by itself.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironlog-dev/ironlog/internal/config"
	"github.com/ironlog-dev/ironlog/internal/configfile"
	"github.com/ironlog-dev/ironlog/internal/engine"
	"github.com/ironlog-dev/ironlog/internal/pb"
	"github.com/ironlog-dev/ironlog/internal/resolver"
	"github.com/ironlog-dev/ironlog/internal/stats"
	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/storage/sqlite"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// Service is the facade described in §6. It is not safe for concurrent
// use by design (§5 single-threaded cooperative model); callers serialize
// their own access.
type Service struct {
	store  storage.Storage
	config *config.Store
	dbPath string
}

// Open resolves the config and database paths (WORKOUT_CONFIG_DIR or the
// OS-standard user-config dir, per §6), opens both, and returns a ready
// Service. The caller must call Close when done.
func Open(ctx context.Context) (*Service, error) {
	configPath, err := configfile.ConfigPath()
	if err != nil {
		return nil, err
	}
	dbPath, err := configfile.DBPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Open(configPath)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, config: cfg, dbPath: dbPath}, nil
}

// New wraps an already-open store and config, primarily for tests that
// want an in-memory-equivalent store without touching the OS config dir
// (§9 "no ambient singletons").
func New(store storage.Storage, cfg *config.Store) *Service {
	return &Service{store: store, config: cfg}
}

// Close releases the database connection.
func (s *Service) Close() error {
	return s.store.Close()
}

// GetConfigPath implements get_config_path (§6).
func (s *Service) GetConfigPath() string { return s.config.Path() }

// GetDBPath implements get_db_path (§6). The path is reported rather than
// re-resolved so it always reflects what this Service instance opened;
// Services built via New for tests report an empty path.
func (s *Service) GetDBPath() string { return s.dbPath }

// --- Exercises ---------------------------------------------------------

func (s *Service) CreateExercise(ctx context.Context, name string, typ types.ExerciseType, muscles string) (int64, error) {
	return s.store.CreateExercise(ctx, name, typ, muscles)
}

func (s *Service) EditExercise(ctx context.Context, identifier string, newName, newMuscles *string, newType *types.ExerciseType) (int64, error) {
	def, err := s.mustResolve(ctx, identifier)
	if err != nil {
		return 0, err
	}
	return s.store.UpdateExercise(ctx, def.Name, newName, newMuscles, newType)
}

// DeleteExercise implements delete_exercise(identifiers[]) -> rows |
// NotFound (§6): each identifier is resolved independently and deleted;
// the first resolution or deletion failure aborts the remaining ones,
// matching §7's "no operation logs-and-continues" propagation policy.
func (s *Service) DeleteExercise(ctx context.Context, identifiers []string) (int, error) {
	deleted := 0
	for _, ident := range identifiers {
		def, err := s.mustResolve(ctx, ident)
		if err != nil {
			return deleted, err
		}
		if err := s.store.DeleteExercise(ctx, def.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *Service) ResolveExerciseIdentifier(ctx context.Context, token string) (*types.ExerciseDefinition, error) {
	result, err := resolver.Resolve(ctx, s.store, token)
	if err != nil {
		return nil, err
	}
	return result.Definition, nil
}

func (s *Service) ListExercises(ctx context.Context, typ *types.ExerciseType, muscle *string) ([]*types.ExerciseDefinition, error) {
	return s.store.ListExercises(ctx, typ, muscle)
}

func (s *Service) mustResolve(ctx context.Context, identifier string) (*types.ExerciseDefinition, error) {
	result, err := resolver.Resolve(ctx, s.store, identifier)
	if err != nil {
		return nil, err
	}
	if result.Definition == nil {
		return nil, types.ErrExerciseNotFound
	}
	return result.Definition, nil
}

// --- Aliases (Alias Manager, §4.6) -------------------------------------

// CreateAlias validates the proposed alias against the three collisions
// in §4.6 — numeric (parses as an id), existing canonical name, existing
// alias — before inserting. This check lives here rather than in
// internal/storage/sqlite because it needs the numeric-parse rule and the
// cross-table view that only the facade has a reason to assemble.
func (s *Service) CreateAlias(ctx context.Context, aliasName, exerciseIdentifier string) error {
	if _, err := strconv.ParseInt(aliasName, 10, 64); err == nil {
		return &types.AliasCollisionError{Alias: aliasName, Reason: types.CollidesWithID}
	}

	if def, err := s.store.GetExerciseByName(ctx, aliasName); err != nil {
		return err
	} else if def != nil {
		return &types.AliasCollisionError{Alias: aliasName, Reason: types.CollidesWithName}
	}

	exists, err := s.store.AliasExists(ctx, aliasName)
	if err != nil {
		return err
	}
	if exists {
		return &types.AliasCollisionError{Alias: aliasName, Reason: types.CollidesWithAlias}
	}

	target, err := s.mustResolve(ctx, exerciseIdentifier)
	if err != nil {
		return err
	}
	return s.store.CreateAlias(ctx, aliasName, target.Name)
}

func (s *Service) DeleteAlias(ctx context.Context, aliasName string) error {
	return s.store.DeleteAlias(ctx, aliasName)
}

func (s *Service) ListAliases(ctx context.Context) ([]types.Alias, error) {
	return s.store.ListAliases(ctx)
}

// --- Workouts (Workout Engine, §4.3 + PB Detector, §4.4) ----------------

// AddWorkoutParams mirrors engine.AddParams but omits Units, which the
// Service fills in from its own config (§9 "explicit units at the
// boundary" — the caller never has to know the configured unit system).
type AddWorkoutParams struct {
	Identifier      string
	Date            time.Time
	Sets            *int
	Reps            *int
	Weight          *float64
	Duration        *float64
	Distance        *float64
	Notes           *string
	ImplicitType    *types.ExerciseType
	ImplicitMuscles *string
	BodyweightToUse *float64
}

// AddWorkout implements add_workout (§6). The returned PBInfo is nil when
// no metric on this entry is a personal best (including when the entry
// carries no metric at all).
func (s *Service) AddWorkout(ctx context.Context, p AddWorkoutParams) (int64, *types.PBInfo, error) {
	result, err := engine.Add(ctx, s.store, engine.AddParams{
		Identifier:      p.Identifier,
		Date:            p.Date,
		Sets:            p.Sets,
		Reps:            p.Reps,
		Weight:          p.Weight,
		Duration:        p.Duration,
		Distance:        p.Distance,
		Notes:           p.Notes,
		ImplicitType:    p.ImplicitType,
		ImplicitMuscles: p.ImplicitMuscles,
		BodyweightToUse: p.BodyweightToUse,
		Units:           s.config.Units(),
	})
	if err != nil {
		return 0, nil, err
	}

	info := pb.Detect(
		pb.PreInsertMaxima{Weight: result.Pre.Weight, Reps: result.Pre.Reps, Duration: result.Pre.Duration, Distance: result.Pre.Distance},
		result.Inserted.Weight, floatFromIntPtr(result.Inserted.Reps), result.Inserted.DurationMinutes, result.Inserted.Distance,
	)
	if !info.AnyAchieved() {
		return result.WorkoutID, nil, nil
	}
	return result.WorkoutID, &info, nil
}

func floatFromIntPtr(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// EditWorkoutParams mirrors engine.EditParams, substituting the
// Service-resolved unit system for Units.
type EditWorkoutParams struct {
	ID            int64
	NewIdentifier *string
	NewDate       *time.Time
	Sets          *int
	ClearSets     bool
	Reps          *int
	ClearReps     bool
	Weight        *float64
	ClearWeight   bool
	Duration      *float64
	ClearDuration bool
	Distance      *float64
	ClearDistance bool
	Notes         *string
	ClearNotes    bool
}

func (s *Service) EditWorkout(ctx context.Context, p EditWorkoutParams) error {
	return engine.Edit(ctx, s.store, engine.EditParams{
		ID:            p.ID,
		NewIdentifier: p.NewIdentifier,
		NewDate:       p.NewDate,
		Sets:          p.Sets,
		ClearSets:     p.ClearSets,
		Reps:          p.Reps,
		ClearReps:     p.ClearReps,
		Weight:        p.Weight,
		ClearWeight:   p.ClearWeight,
		Duration:      p.Duration,
		ClearDuration: p.ClearDuration,
		Distance:      p.Distance,
		ClearDistance: p.ClearDistance,
		Notes:         p.Notes,
		ClearNotes:    p.ClearNotes,
		Units:         s.config.Units(),
	})
}

func (s *Service) DeleteWorkouts(ctx context.Context, ids []int64) map[int64]error {
	return engine.Delete(ctx, s.store, ids)
}

func (s *Service) ListWorkouts(ctx context.Context, filters types.WorkoutFilters) ([]types.Workout, error) {
	return s.store.ListWorkouts(ctx, filters)
}

func (s *Service) ListWorkoutsForExerciseOnNthLastDay(ctx context.Context, identifier string, n int) ([]types.Workout, error) {
	def, err := s.mustResolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.store.ListWorkoutsForExerciseOnNthLastDay(ctx, def.Name, n)
}

func (s *Service) CalculateDailyVolume(ctx context.Context, filters types.WorkoutFilters) ([]types.DailyVolumeRow, error) {
	return s.store.CalculateDailyVolume(ctx, filters)
}

// --- Statistics (§4.5) --------------------------------------------------

func (s *Service) GetExerciseStats(ctx context.Context, identifier string) (types.ExerciseStats, error) {
	return stats.ExerciseStats(ctx, s.store, identifier, s.config.StreakIntervalDays(), time.Now())
}

func (s *Service) GetDataForGraph(ctx context.Context, identifier string, kind types.GraphKind) ([]types.GraphPoint, error) {
	return stats.GraphData(ctx, s.store, identifier, kind, s.config.Units())
}

// --- Bodyweights ---------------------------------------------------------

func (s *Service) AddBodyweightEntry(ctx context.Context, ts time.Time, weight float64) (int64, error) {
	if weight <= 0 {
		return 0, types.ErrInvalidBodyweight
	}
	return s.store.CreateBodyweightEntry(ctx, ts, weight)
}

func (s *Service) ListBodyweights(ctx context.Context, limit *int) ([]types.BodyweightEntry, error) {
	return s.store.ListBodyweights(ctx, limit)
}

func (s *Service) GetLatestBodyweight(ctx context.Context) (*float64, error) {
	return s.store.GetLatestBodyweight(ctx)
}

func (s *Service) DeleteBodyweight(ctx context.Context, id int64) error {
	return s.store.DeleteBodyweight(ctx, id)
}

// --- PB notification gate (§4.7, §6, §9) --------------------------------

// CheckPBNotificationGate implements the S7 scenario: when the tri-state
// notify_pb_enabled is unset, the caller must be told so via
// PbNotificationNotSet before any PB event is surfaced as a notification.
// Once resolved (true or false), subsequent calls just report the flag.
func (s *Service) CheckPBNotificationGate() (enabled bool, err error) {
	v := s.config.NotifyPBEnabled()
	if v == nil {
		return false, types.ErrPbNotificationNotSet
	}
	return *v, nil
}

func (s *Service) SetNotifyPBEnabled(v bool) error {
	return s.config.SetNotifyPBEnabled(v)
}

func (s *Service) SetNotifyPBMetric(metric config.PBMetric, v bool) error {
	return s.config.SetNotifyPBMetric(metric, v)
}

func (s *Service) NotifyPBMetric(metric config.PBMetric) bool {
	return s.config.NotifyPBMetric(metric)
}

// --- Config passthroughs -------------------------------------------------

func (s *Service) SetUnits(u types.UnitSystem) error                { return s.config.SetUnits(u) }
func (s *Service) Units() types.UnitSystem                          { return s.config.Units() }
func (s *Service) SetBodyweight(weight float64) error               { return s.config.SetBodyweight(weight) }
func (s *Service) Bodyweight() *float64                             { return s.config.Bodyweight() }
func (s *Service) SetTargetBodyweight(weight float64) error         { return s.config.SetTargetBodyweight(weight) }
func (s *Service) ClearTargetBodyweight() error                     { return s.config.ClearTargetBodyweight() }
func (s *Service) TargetBodyweight() *float64                       { return s.config.TargetBodyweight() }
func (s *Service) SetStreakIntervalDays(n int) error                { return s.config.SetStreakIntervalDays(n) }
func (s *Service) StreakIntervalDays() int                          { return s.config.StreakIntervalDays() }
func (s *Service) PromptForBodyweight() bool                        { return s.config.PromptForBodyweight() }
func (s *Service) DisableBodyweightPrompt() error                   { return s.config.DisableBodyweightPrompt() }
func (s *Service) ThemeHeaderColor() lipgloss.Color                  { return s.config.ThemeHeaderColor() }

// CheckConsistency runs a doctor-style dangling-reference scan (see
// SPEC_FULL.md's supplemented CheckConsistency operation): every alias
// must point at an existing exercise, and every workout's exercise_name
// should resolve by case-insensitive name. Nothing is repaired
// automatically; the caller decides what to do with the report.
func (s *Service) CheckConsistency(ctx context.Context) (ConsistencyReport, error) {
	var report ConsistencyReport

	aliases, err := s.store.ListAliases(ctx)
	if err != nil {
		return report, err
	}
	for _, a := range aliases {
		def, err := s.store.GetExerciseByName(ctx, a.ExerciseName)
		if err != nil {
			return report, err
		}
		if def == nil {
			report.DanglingAliases = append(report.DanglingAliases, a.AliasName)
		}
	}

	workouts, err := s.store.ListWorkouts(ctx, types.WorkoutFilters{})
	if err != nil {
		return report, err
	}
	seen := map[string]bool{}
	for _, w := range workouts {
		key := strings.ToLower(w.ExerciseName)
		if seen[key] {
			continue
		}
		seen[key] = true
		def, err := s.store.GetExerciseByName(ctx, w.ExerciseName)
		if err != nil {
			return report, err
		}
		if def == nil {
			report.OrphanedWorkoutExerciseNames = append(report.OrphanedWorkoutExerciseNames, w.ExerciseName)
		}
	}

	return report, nil
}

// ConsistencyReport is CheckConsistency's output: names, not automatic
// fixes — the caller decides what to do with dangling references.
type ConsistencyReport struct {
	DanglingAliases              []string
	OrphanedWorkoutExerciseNames []string
}

// IsConsistent reports whether the scan found nothing to flag.
func (r ConsistencyReport) IsConsistent() bool {
	return len(r.DanglingAliases) == 0 && len(r.OrphanedWorkoutExerciseNames) == 0
}
