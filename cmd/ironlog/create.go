package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironlog-dev/ironlog/internal/types"
)

var (
	createExerciseType    string
	createExerciseMuscles string
)

var createExerciseCmd = &cobra.Command{
	Use:   "create-exercise [name]",
	Short: "Create a new exercise definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, ok := types.ParseExerciseType(createExerciseType)
		if !ok {
			return fmt.Errorf("unknown exercise type %q (want resistance, cardio, or body-weight)", createExerciseType)
		}
		id, err := svc.CreateExercise(cmd.Context(), args[0], typ, createExerciseMuscles)
		if err != nil {
			return err
		}
		fmt.Printf("created exercise #%d: %s (%s)\n", id, args[0], typ)
		return nil
	},
}

func init() {
	createExerciseCmd.Flags().StringVar(&createExerciseType, "type", string(types.Resistance), "resistance | cardio | body-weight")
	createExerciseCmd.Flags().StringVar(&createExerciseMuscles, "muscles", "", "comma-separated muscle tags")
}
