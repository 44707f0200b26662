package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/distkit/pkg/stores"
)

func newPlanCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve configuration and print the CI task description",
		Long: `Resolve the workspace and package configuration, distribute build targets
onto runners, and print the resulting task description without writing
anything into the workspace.`,
		Example: `  # Print the task description
  distkit plan

  # Save it to a file
  distkit plan --out tasks.yml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveWorkspace(workspaceDir)
			if err != nil {
				return err
			}

			log.Info().
				Str("workspace", res.Graph.Root).
				Int("packages", len(res.Apps)).
				Int("tasks", len(res.Info.ArtifactsMatrix.Include)).
				Msg("Resolved task description")

			var rendered []byte
			if jsonOutput {
				rendered, err = json.MarshalIndent(res.Info, "", "  ")
			} else {
				rendered, err = res.Info.TaskDescription()
			}
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, rendered, 0o644); err != nil {
					return fmt.Errorf("failed to write plan: %w", err)
				}
			} else {
				fmt.Print(string(rendered))
			}

			recordGeneration(cmd.Context(), res, stores.GenerationKindPlan)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the task description to this file instead of stdout")

	return cmd
}
