// Package cli implements the QuestForge command-line interface using Cobra.
// Commands open the local store directly; `questforge serve` runs the API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "questforge",
	Short: "QuestForge turns your tasks and habits into an RPG",
	Long: `QuestForge is a local-first productivity game.
Complete quests, keep habit streaks, focus, level up and grow a companion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Bad.Render("Error:"), err)
		os.Exit(1)
	}
}
