package commands

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/distkit/pkg/ci"
	"github.com/distkit/distkit/pkg/vendoring"
	"github.com/distkit/distkit/pkg/workspace"
)

func newVendorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Fetch and verify the pinned external actions",
		Long: `Fetch every pinned external action archive, verify its content hash
against the pinned expectation, and install it under .github/actions/.
A hash mismatch aborts with the expected and actual hashes; the previously
vendored copy, if any, is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := workspace.Discover(workspaceDir)
			if err != nil {
				return err
			}

			verifier := vendoring.NewVerifier(vendoring.WithLogger(log.Logger))
			root := filepath.Join(graph.Root, ci.ActionsDir)
			if err := vendoring.VendorAll(cmd.Context(), verifier, root); err != nil {
				return err
			}

			log.Info().
				Int("actions", len(vendoring.Pins())).
				Str("path", root).
				Msg("Vendored pinned actions")
			return nil
		},
	}

	return cmd
}
