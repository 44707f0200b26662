package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/distkit/distkit/pkg/ci"
	"github.com/distkit/distkit/pkg/config"
	"github.com/distkit/distkit/pkg/stores"
	"github.com/distkit/distkit/pkg/workspace"
)

// resolution is everything a command needs after loading a workspace.
type resolution struct {
	Graph *workspace.Graph
	WS    config.WorkspaceConfig
	Apps  []config.AppConfig
	Info  *ci.Info
	Diags *ci.Diagnostics
}

// resolveWorkspace loads the workspace at dir, resolves every scope, and
// assembles the task description.
func resolveWorkspace(dir string) (*resolution, error) {
	graph, err := workspace.Discover(dir)
	if err != nil {
		return nil, err
	}

	loader := config.NewLoader()
	wsLayer, pkgLayers, err := loader.LoadWorkspace(graph)
	if err != nil {
		return nil, err
	}

	wsCfg := config.ResolveWorkspace(graph, wsLayer)
	if err := config.ValidateWorkspace(&wsCfg); err != nil {
		return nil, err
	}

	apps := make([]config.AppConfig, 0, len(graph.Packages))
	for _, pkg := range graph.Packages {
		appCfg := config.ResolvePackage(graph, pkg, wsLayer, pkgLayers[pkg.Name])
		if err := config.ValidateApp(&appCfg); err != nil {
			return nil, err
		}
		apps = append(apps, appCfg)
	}

	diags := ci.NewDiagnostics(log.Logger)
	info, err := ci.Assemble(wsCfg, apps, diags)
	if err != nil {
		return nil, err
	}

	return &resolution{
		Graph: graph,
		WS:    wsCfg,
		Apps:  apps,
		Info:  info,
		Diags: diags,
	}, nil
}

// historyDBPath is where a workspace's generation history lives.
func historyDBPath(g *workspace.Graph) string {
	return filepath.Join(g.Root, ".distkit", "history.db")
}

// recordGeneration appends a history record for this run. History is an
// audit convenience; failures are logged, never fatal.
func recordGeneration(ctx context.Context, res *resolution, kind stores.GenerationKind) {
	rendered, err := res.Info.TaskDescription()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fingerprint task description")
		return
	}
	sum := sha256.Sum256(rendered)

	dbPath := historyDBPath(res.Graph)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Warn().Err(err).Msg("Failed to create history directory")
		return
	}

	store, err := stores.NewSQLiteStore(dbPath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open history store")
		return
	}
	if err := store.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to open history store")
		return
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to migrate history store")
		return
	}

	gen := &stores.Generation{
		ID:           uuid.New().String(),
		Workspace:    res.Graph.Root,
		Kind:         kind,
		OutputDigest: hex.EncodeToString(sum[:]),
		DistVersion:  res.WS.DistVersion,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.RecordGeneration(ctx, gen); err != nil {
		log.Warn().Err(err).Msg("Failed to record generation history")
	}
}
