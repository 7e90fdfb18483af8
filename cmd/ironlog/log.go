package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ironlog-dev/ironlog/internal/service"
	"github.com/ironlog-dev/ironlog/internal/types"
)

var (
	logDate     string
	logSets     int
	logReps     int
	logWeight   float64
	logDuration float64
	logDistance float64
	logNotes    string
)

var logWorkoutCmd = &cobra.Command{
	Use:   "log [identifier]",
	Short: "Log a workout entry against an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if logDate != "" {
			parsed, err := time.Parse("2006-01-02", logDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", logDate, err)
			}
			date = parsed
		}

		params := service.AddWorkoutParams{
			Identifier: args[0],
			Date:       date,
			Notes:      optionalString(logNotes),
		}
		if cmd.Flags().Changed("sets") {
			params.Sets = &logSets
		}
		if cmd.Flags().Changed("reps") {
			params.Reps = &logReps
		}
		if cmd.Flags().Changed("weight") {
			params.Weight = &logWeight
		}
		if cmd.Flags().Changed("duration") {
			params.Duration = &logDuration
		}
		if cmd.Flags().Changed("distance") {
			params.Distance = &logDistance
		}

		if bw := svc.Bodyweight(); bw != nil {
			params.BodyweightToUse = bw
		}

		id, info, err := svc.AddWorkout(cmd.Context(), params)
		if err == types.ErrBodyweightRequired {
			return fmt.Errorf("this exercise needs a bodyweight: set a default bodyweight in the config file")
		}
		if err != nil {
			return err
		}

		fmt.Printf("logged workout #%d\n", id)
		if info != nil && info.AnyAchieved() {
			printPBBanner(*info)
		}
		return nil
	},
}

func init() {
	logWorkoutCmd.Flags().StringVar(&logDate, "date", "", "calendar day (YYYY-MM-DD), defaults to today")
	logWorkoutCmd.Flags().IntVar(&logSets, "sets", 1, "number of sets")
	logWorkoutCmd.Flags().IntVar(&logReps, "reps", 0, "reps per set")
	logWorkoutCmd.Flags().Float64Var(&logWeight, "weight", 0, "weight in the configured unit")
	logWorkoutCmd.Flags().Float64Var(&logDuration, "duration", 0, "duration in minutes")
	logWorkoutCmd.Flags().Float64Var(&logDistance, "distance", 0, "distance in the configured unit")
	logWorkoutCmd.Flags().StringVar(&logNotes, "notes", "", "free-text notes")
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// printPBBanner prints the one styled line this CLI renders: a personal
// best banner, colored with the configured theme header color rather than
// a full TUI render.
func printPBBanner(info types.PBInfo) {
	style := lipgloss.NewStyle().Bold(true).Foreground(svc.ThemeHeaderColor())
	fmt.Println(style.Render("New personal best!"))
	printMetric("weight", info.Weight)
	printMetric("reps", info.Reps)
	printMetric("duration", info.Duration)
	printMetric("distance", info.Distance)
}

func printMetric(name string, m types.MetricPB) {
	if !m.Achieved {
		return
	}
	if m.PreviousValue == nil {
		fmt.Printf("  %s: %.2f (first entry)\n", name, m.NewValue)
		return
	}
	fmt.Printf("  %s: %.2f (previous best %.2f)\n", name, m.NewValue, *m.PreviousValue)
}
