package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [identifier]",
	Short: "Show per-exercise statistics and personal bests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := svc.GetExerciseStats(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", s.ExerciseName)
		fmt.Printf("  total workouts:   %d\n", s.TotalWorkouts)
		fmt.Printf("  first / last:     %s / %s\n", s.FirstWorkoutDate.Format("2006-01-02"), s.LastWorkoutDate.Format("2006-01-02"))
		fmt.Printf("  current streak:   %d days (interval %d)\n", s.CurrentStreak, s.StreakIntervalDays)
		fmt.Printf("  longest streak:   %d days\n", s.LongestStreak)
		fmt.Printf("  max weight:       %s\n", formatFloatPtr(s.PersonalBests.MaxWeight))
		fmt.Printf("  max reps:         %s\n", formatFloatPtr(s.PersonalBests.MaxReps))
		fmt.Printf("  max duration:     %s\n", formatFloatPtr(s.PersonalBests.MaxDurationMin))
		fmt.Printf("  max distance:     %s\n", formatFloatPtr(s.PersonalBests.MaxDistanceKm))
		return nil
	},
}
