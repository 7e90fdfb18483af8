// Package config implements the Config Store (§4.7): a typed, file-backed
// TOML document holding user preferences, loaded-or-initialized on open and
// saved whole-file on every mutation. Modeled on the teacher's
// internal/formula and internal/recipes packages, which decode/encode TOML
// with github.com/BurntSushi/toml the same way.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// DefaultThemeHeaderColor is the default header color (§4.7 defaults).
const DefaultThemeHeaderColor = "green"

// Document is the on-disk TOML shape. Unknown keys are tolerated by
// BurntSushi/toml's decoder (it simply ignores them); missing keys keep the
// documented defaults, because Open decodes over a default-filled Document.
type Document struct {
	Units               string  `toml:"units"`
	PromptForBodyweight bool    `toml:"prompt_for_bodyweight"`
	StreakIntervalDays  int     `toml:"streak_interval_days"`
	Bodyweight          *float64 `toml:"bodyweight,omitempty"`
	TargetBodyweight    *float64 `toml:"target_bodyweight,omitempty"`
	ThemeHeaderColor    string  `toml:"theme_header_color"`

	// NotifyPBEnabled is a tri-state: nil means "unset" (§4.7), forcing
	// PbNotificationNotSet on the caller's first PB check.
	NotifyPBEnabled *bool `toml:"notify_pb_enabled,omitempty"`

	NotifyPBWeight   bool `toml:"notify_pb_weight"`
	NotifyPBReps     bool `toml:"notify_pb_reps"`
	NotifyPBDuration bool `toml:"notify_pb_duration"`
	NotifyPBDistance bool `toml:"notify_pb_distance"`
}

func defaultDocument() Document {
	return Document{
		Units:               string(types.Metric),
		PromptForBodyweight: true,
		StreakIntervalDays:  1,
		ThemeHeaderColor:    DefaultThemeHeaderColor,
		NotifyPBEnabled:     nil,
		NotifyPBWeight:      true,
		NotifyPBReps:        true,
		NotifyPBDuration:    true,
		NotifyPBDistance:    true,
	}
}

// Store owns the single config document for the process lifetime (§5: the
// Service Facade is the only thing that opens it).
type Store struct {
	path string
	doc  Document
}

// Open loads the document at path, initializing it with defaults and
// writing it out if the file does not yet exist (§4.7 load-or-initialize).
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path) // #nosec G304 -- path resolved by configfile.ConfigPath
	if os.IsNotExist(err) {
		s.doc = defaultDocument()
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrConfigIO, err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfigIO, err)
	}

	doc := defaultDocument()
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfigParse, err)
	}
	s.doc = doc
	return s, nil
}

// save performs the atomic replace: encode to a temp file in the same
// directory, then rename over the target (§4.7 "save-whole-file").
func (s *Store) save() error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfigSerialize, err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(s.doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", types.ErrConfigSerialize, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", types.ErrConfigIO, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", types.ErrConfigIO, err)
	}
	return nil
}

// Path returns the config file's location (get_config_path in §6).
func (s *Store) Path() string { return s.path }

// Units returns the configured unit system.
func (s *Store) Units() types.UnitSystem {
	if s.doc.Units == string(types.Imperial) {
		return types.Imperial
	}
	return types.Metric
}

// SetUnits updates and persists the unit system.
func (s *Store) SetUnits(u types.UnitSystem) error {
	s.doc.Units = string(u)
	return s.save()
}

// Bodyweight returns the configured bodyweight, if any.
func (s *Store) Bodyweight() *float64 { return s.doc.Bodyweight }

// SetBodyweight validates (> 0) and persists the current bodyweight.
func (s *Store) SetBodyweight(weight float64) error {
	if weight <= 0 {
		return types.ErrInvalidBodyweight
	}
	s.doc.Bodyweight = &weight
	return s.save()
}

// TargetBodyweight returns the configured target, if any.
func (s *Store) TargetBodyweight() *float64 { return s.doc.TargetBodyweight }

// SetTargetBodyweight persists a new target bodyweight.
func (s *Store) SetTargetBodyweight(weight float64) error {
	if weight <= 0 {
		return types.ErrInvalidBodyweight
	}
	s.doc.TargetBodyweight = &weight
	return s.save()
}

// ClearTargetBodyweight removes the configured target.
func (s *Store) ClearTargetBodyweight() error {
	s.doc.TargetBodyweight = nil
	return s.save()
}

// StreakIntervalDays returns N from §4.5's streak definition.
func (s *Store) StreakIntervalDays() int { return s.doc.StreakIntervalDays }

// SetStreakIntervalDays validates (>= 1) and persists the streak interval.
func (s *Store) SetStreakIntervalDays(n int) error {
	if n < 1 {
		return types.ErrInvalidStreakInterval
	}
	s.doc.StreakIntervalDays = n
	return s.save()
}

// PromptForBodyweight reports whether the front end should prompt for a
// bodyweight log when one is required and none is set.
func (s *Store) PromptForBodyweight() bool { return s.doc.PromptForBodyweight }

// DisableBodyweightPrompt turns off the bodyweight prompt flag.
func (s *Store) DisableBodyweightPrompt() error {
	s.doc.PromptForBodyweight = false
	return s.save()
}

// PBMetric is a closed tag for the four per-metric PB notification flags.
type PBMetric string

const (
	PBMetricWeight   PBMetric = "weight"
	PBMetricReps     PBMetric = "reps"
	PBMetricDuration PBMetric = "duration"
	PBMetricDistance PBMetric = "distance"
)

// NotifyPBEnabled returns the tri-state PB notification flag: nil means
// unset, forcing PbNotificationNotSet on the caller per §4.7.
func (s *Store) NotifyPBEnabled() *bool { return s.doc.NotifyPBEnabled }

// SetNotifyPBEnabled resolves the tri-state, answering a
// PbNotificationNotSet prompt.
func (s *Store) SetNotifyPBEnabled(v bool) error {
	s.doc.NotifyPBEnabled = &v
	return s.save()
}

// SetNotifyPBMetric independently toggles one of the four per-metric PB
// notification flags.
func (s *Store) SetNotifyPBMetric(metric PBMetric, v bool) error {
	switch metric {
	case PBMetricWeight:
		s.doc.NotifyPBWeight = v
	case PBMetricReps:
		s.doc.NotifyPBReps = v
	case PBMetricDuration:
		s.doc.NotifyPBDuration = v
	case PBMetricDistance:
		s.doc.NotifyPBDistance = v
	default:
		return fmt.Errorf("unknown PB metric %q", metric)
	}
	return s.save()
}

// NotifyPBMetric reports whether notifications are enabled for one metric.
func (s *Store) NotifyPBMetric(metric PBMetric) bool {
	switch metric {
	case PBMetricWeight:
		return s.doc.NotifyPBWeight
	case PBMetricReps:
		return s.doc.NotifyPBReps
	case PBMetricDuration:
		return s.doc.NotifyPBDuration
	case PBMetricDistance:
		return s.doc.NotifyPBDistance
	default:
		return false
	}
}

// ThemeHeaderColor returns the configured header color as a lipgloss.Color.
// An empty value yields DefaultThemeHeaderColor; any other stored string is
// returned as-is, without checking that lipgloss understands it.
func (s *Store) ThemeHeaderColor() lipgloss.Color {
	if s.doc.ThemeHeaderColor == "" {
		return lipgloss.Color(DefaultThemeHeaderColor)
	}
	return lipgloss.Color(s.doc.ThemeHeaderColor)
}

// SetThemeHeaderColor persists a new header color. Only the empty string is
// rejected; the value is not checked against the color forms lipgloss
// understands (hex, ANSI256 index).
func (s *Store) SetThemeHeaderColor(color string) error {
	if color == "" {
		return fmt.Errorf("theme header color must not be empty")
	}
	s.doc.ThemeHeaderColor = color
	return s.save()
}
