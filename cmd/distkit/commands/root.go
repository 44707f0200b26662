package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	workspaceDir string
	verbose      bool
	jsonOutput   bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "distkit",
		Short: "distkit - release automation for multi-package workspaces",
		Long: `distkit resolves layered release configuration for every package in a
workspace and compiles it into a concrete CI task graph: which runners build
which targets, what system packages each must install, and which pinned,
hash-verified external actions to vendor.

Workflow:
  - distkit plan      resolve config and print the task description
  - distkit generate  write the task description into the workspace
  - distkit check     verify the generated output is up to date
  - distkit vendor    fetch and verify the pinned external actions`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "C", ".", "workspace root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVendorCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
