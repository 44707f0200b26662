package commands

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/distkit/pkg/stores"
	"github.com/distkit/distkit/pkg/vendoring"
	"github.com/distkit/distkit/pkg/workspace"
)

func newGenerateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the CI task description into the workspace",
		Long: `Resolve configuration, assemble the task description, and write it under
.github/workflows/. When action vendoring is enabled, the pinned external
actions are fetched, hash-verified, and installed under .github/actions/.`,
		Example: `  # Generate once
  distkit generate

  # Regenerate whenever a dist.cue changes
  distkit generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := generateOnce(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchAndRegenerate(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when configuration fragments change")

	return cmd
}

func generateOnce(ctx context.Context) error {
	res, err := resolveWorkspace(workspaceDir)
	if err != nil {
		return err
	}

	verifier := vendoring.NewVerifier(vendoring.WithLogger(log.Logger))
	if err := res.Info.WriteToDisk(ctx, res.Graph.Root, verifier); err != nil {
		return err
	}

	log.Info().
		Str("path", res.Info.OutputPath(res.Graph.Root)).
		Bool("vendored_actions", res.Info.VendorActions).
		Msg("Generated CI task description")

	recordGeneration(ctx, res, stores.GenerationKindGenerate)
	return nil
}

// watchAndRegenerate watches every dist.cue in the workspace and regenerates
// on change, debounced, until the context is cancelled.
func watchAndRegenerate(ctx context.Context) error {
	graph, err := workspace.Discover(workspaceDir)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(graph.ConfigPath()); err != nil {
		return err
	}
	for _, pkg := range graph.Packages {
		// Package fragments are optional; watch the directory so creating
		// one later is also picked up.
		if err := watcher.Add(pkg.Root); err != nil {
			log.Warn().Err(err).Str("package", pkg.Name).Msg("Failed to watch package directory")
		}
	}

	log.Info().Int("packages", len(graph.Packages)).Msg("Watching configuration fragments")

	// Debounce bursts of events from editors writing files in several steps.
	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isFragment(event.Name) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Fragment changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := generateOnce(ctx); err != nil {
					log.Error().Err(err).Msg("Regeneration failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func isFragment(path string) bool {
	return len(path) >= len(workspace.ConfigFileName) &&
		path[len(path)-len(workspace.ConfigFileName):] == workspace.ConfigFileName
}
