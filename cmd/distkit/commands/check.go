package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/distkit/pkg/stores"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the generated CI is up to date",
		Long: `Resolve configuration, render the task description, and compare it against
the copy in the workspace without writing anything. Exits non-zero when the
output on disk differs from what the current configuration produces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveWorkspace(workspaceDir)
			if err != nil {
				return err
			}

			if err := res.Info.Check(res.Graph.Root); err != nil {
				return err
			}

			log.Info().
				Str("path", res.Info.OutputPath(res.Graph.Root)).
				Msg("Generated CI is up to date")

			recordGeneration(cmd.Context(), res, stores.GenerationKindCheck)
			return nil
		},
	}

	return cmd
}
