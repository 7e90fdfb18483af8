package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironlog-dev/ironlog/internal/types"
)

var listExerciseFilter string

var listWorkoutsCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent workout entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := types.WorkoutFilters{}
		if listExerciseFilter != "" {
			filters.ExerciseName = &listExerciseFilter
		}
		limit := 20
		filters.Limit = &limit

		workouts, err := svc.ListWorkouts(cmd.Context(), filters)
		if err != nil {
			return err
		}
		for _, w := range workouts {
			fmt.Printf("#%-5d %s  %-20s sets=%s reps=%s weight=%s\n",
				w.ID, w.Timestamp.Format("2006-01-02"), w.ExerciseName,
				formatIntPtr(w.Sets), formatIntPtr(w.Reps), formatFloatPtr(w.Weight))
		}
		return nil
	},
}

func init() {
	listWorkoutsCmd.Flags().StringVar(&listExerciseFilter, "exercise", "", "filter by exercise name (case-insensitive; ids and aliases are not resolved)")
}

func formatIntPtr(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
