// Command ironlog is a minimal smoke-test harness over the Service
// Facade, not a feature-complete front end. Per spec.md §1, the full
// command-line UX, TUI, CSV export, and HTTP sync client are external
// collaborators outside this repository's scope; this binary exists only
// to exercise the domain core end to end, the way the teacher's root-level
// beads.go exposes a minimal public API separate from its full cmd/bd CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironlog-dev/ironlog/internal/service"
)

var svc *service.Service

var rootCmd = &cobra.Command{
	Use:   "ironlog",
	Short: "Personal workout tracker (domain-core smoke test harness)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := service.Open(cmd.Context())
		if err != nil {
			return fmt.Errorf("opening service: %w", err)
		}
		svc = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc != nil {
			return svc.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createExerciseCmd, logWorkoutCmd, listWorkoutsCmd, statsCmd)
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ironlog:", err)
		os.Exit(1)
	}
}
