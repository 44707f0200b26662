package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/distkit/pkg/stores"
	"github.com/distkit/distkit/pkg/workspace"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent plan and generate runs for this workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := workspace.Discover(workspaceDir)
			if err != nil {
				return err
			}

			dbPath := historyDBPath(graph)
			if _, err := os.Stat(dbPath); err != nil {
				log.Info().Str("workspace", graph.Root).Msg("No history recorded yet")
				return nil
			}

			store, err := stores.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			if err := store.Init(cmd.Context()); err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			defer store.Close()

			gens, err := store.ListGenerations(cmd.Context(), graph.Root, limit)
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(gens)
			}

			if len(gens) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tKIND\tVERSION\tDIGEST")
			for _, g := range gens {
				digest := g.OutputDigest
				if len(digest) > 12 {
					digest = digest[:12]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					g.CreatedAt.Format("2006-01-02 15:04:05"), g.Kind, g.DistVersion, digest)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries to show")

	return cmd
}
