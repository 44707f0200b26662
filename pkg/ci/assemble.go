package ci

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/distkit/distkit/pkg/config"
	"github.com/distkit/distkit/pkg/vendoring"
)

// Output locations under the workspace root.
const (
	ActionsDir   = ".github/actions"
	WorkflowsDir = ".github/workflows"
	WorkflowFile = "release.yml"
)

// ErrOutOfDate reports that the CI description on disk differs from what the
// current configuration would generate.
var ErrOutOfDate = errors.New("generated CI is out of date, re-run generate")

// MatrixEntry is one task handed to the external template renderer: a runner,
// its assigned targets, and the commands it needs.
type MatrixEntry struct {
	Targets         []string `yaml:"targets,omitempty" json:"targets,omitempty"`
	Runner          string   `yaml:"runner" json:"runner"`
	DistArgs        string   `yaml:"dist_args" json:"dist_args"`
	InstallDist     string   `yaml:"install_dist" json:"install_dist"`
	PackagesInstall string   `yaml:"packages_install,omitempty" json:"packages_install,omitempty"`
}

// Matrix is the set of local-artifact tasks.
type Matrix struct {
	Include []MatrixEntry `yaml:"include" json:"include"`
}

// Info is the assembled task description consumed by the external template
// renderer: the global task, the per-runner local artifact tasks, and the
// pipeline-shape flags.
type Info struct {
	DistVersion         string      `yaml:"dist_version" json:"dist_version"`
	InstallDistSh       string      `yaml:"install_dist_sh" json:"install_dist_sh"`
	InstallDistPs1      string      `yaml:"install_dist_ps1" json:"install_dist_ps1"`
	FailFast            bool        `yaml:"fail_fast" json:"fail_fast"`
	BuildLocalArtifacts bool        `yaml:"build_local_artifacts" json:"build_local_artifacts"`
	DispatchReleases    bool        `yaml:"dispatch_releases" json:"dispatch_releases"`
	ReleaseBranch       string      `yaml:"release_branch,omitempty" json:"release_branch,omitempty"`
	TagNamespace        string      `yaml:"tag_namespace,omitempty" json:"tag_namespace,omitempty"`
	PRRunMode           string      `yaml:"pr_run_mode" json:"pr_run_mode"`
	GlobalTask          MatrixEntry `yaml:"global_task" json:"global_task"`
	ArtifactsMatrix     Matrix      `yaml:"artifacts_matrix" json:"artifacts_matrix"`
	PlanJobs            []string    `yaml:"plan_jobs,omitempty" json:"plan_jobs,omitempty"`
	LocalArtifactsJobs  []string    `yaml:"local_artifacts_jobs,omitempty" json:"local_artifacts_jobs,omitempty"`
	GlobalArtifactsJobs []string    `yaml:"global_artifacts_jobs,omitempty" json:"global_artifacts_jobs,omitempty"`
	HostJobs            []string    `yaml:"host_jobs,omitempty" json:"host_jobs,omitempty"`
	PublishJobs         []string    `yaml:"publish_jobs,omitempty" json:"publish_jobs,omitempty"`
	PostAnnounceJobs    []string    `yaml:"post_announce_jobs,omitempty" json:"post_announce_jobs,omitempty"`
	VendorActions       bool        `yaml:"vendor_actions" json:"vendor_actions"`
}

// Assemble combines the resolved workspace configuration and the resolved
// package configurations into the final task description.
func Assemble(ws config.WorkspaceConfig, apps []config.AppConfig, diags *Diagnostics) (*Info, error) {
	// Collect the union of targets and system dependencies across every
	// distributed package.
	var targets []string
	var deps config.SystemDependencies
	for i := range apps {
		if !apps[i].Dist {
			continue
		}
		targets = append(targets, apps[i].Targets...)
		sysDeps := apps[i].Builds.SystemDependencies
		deps.Append(&sysDeps)
	}

	installSh := installShForVersion(ws.DistVersion)
	installPs1 := installPs1ForVersion(ws.DistVersion)

	planner := NewPlanner(ws.CI.Runners, diags)

	// The global task builds platform-agnostic artifacts and stitches
	// together the per-build manifests. Linux is fast and cheap, so it is
	// the default home for it.
	globalTask := MatrixEntry{
		Runner:      planner.GlobalRunner(),
		DistArgs:    "--artifacts=global",
		InstallDist: installSh,
	}

	strategy := StrategyIsolate
	if ws.CI.MergeTasks {
		strategy = StrategyConsolidate
	}
	groups, err := planner.Distribute(strategy, targets)
	if err != nil {
		return nil, err
	}

	matrix := Matrix{Include: make([]MatrixEntry, 0, len(groups))}
	for _, group := range groups {
		args := "--artifacts=local"
		for _, target := range group.Targets {
			args += " --target=" + target
		}
		matrix.Include = append(matrix.Include, MatrixEntry{
			Targets:         group.Targets,
			Runner:          group.Runner,
			DistArgs:        args,
			InstallDist:     installExprForTargets(group.Targets, installSh, installPs1),
			PackagesInstall: InstallCommandForTargets(group.Targets, &deps),
		})
	}

	return &Info{
		DistVersion:         ws.DistVersion,
		InstallDistSh:       installSh,
		InstallDistPs1:      installPs1,
		FailFast:            ws.CI.FailFast,
		BuildLocalArtifacts: ws.CI.BuildLocalArtifacts,
		DispatchReleases:    ws.CI.DispatchReleases,
		ReleaseBranch:       ws.CI.ReleaseBranch,
		TagNamespace:        ws.CI.TagNamespace,
		PRRunMode:           ws.CI.PRRunMode,
		GlobalTask:          globalTask,
		ArtifactsMatrix:     matrix,
		PlanJobs:            ws.CI.PlanJobs,
		LocalArtifactsJobs:  ws.CI.LocalArtifactsJobs,
		GlobalArtifactsJobs: ws.CI.GlobalArtifactsJobs,
		HostJobs:            ws.CI.HostJobs,
		PublishJobs:         ws.CI.PublishJobs,
		PostAnnounceJobs:    ws.CI.PostAnnounceJobs,
		VendorActions:       ws.CI.VendorActions,
	}, nil
}

// TaskDescription serializes the assembled info for the external renderer.
func (i *Info) TaskDescription() ([]byte, error) {
	return yaml.Marshal(i)
}

// OutputPath returns where the task description lives under the workspace
// root. A tag namespace prefixes the filename to emphasize it is one of many
// workflows in the project.
func (i *Info) OutputPath(root string) string {
	name := WorkflowFile
	if i.TagNamespace != "" {
		name = i.TagNamespace + "-" + name
	}
	return filepath.Join(root, WorkflowsDir, name)
}

// Check renders the task description and compares it against the copy on
// disk without writing anything. Returns ErrOutOfDate (wrapped with the
// path) on any difference, including a missing file.
func (i *Info) Check(root string) error {
	rendered, err := i.TaskDescription()
	if err != nil {
		return err
	}

	path := i.OutputPath(root)
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrOutOfDate)
	}
	if !bytes.Equal(existing, rendered) {
		return fmt.Errorf("%s: %w", path, ErrOutOfDate)
	}
	return nil
}

// WriteToDisk renders the task description into the workspace and, when
// vendoring is enabled, installs the pinned actions.
func (i *Info) WriteToDisk(ctx context.Context, root string, verifier *vendoring.Verifier) error {
	rendered, err := i.TaskDescription()
	if err != nil {
		return err
	}

	path := i.OutputPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create workflows dir: %w", err)
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return fmt.Errorf("failed to write task description: %w", err)
	}

	if i.VendorActions {
		if err := vendoring.VendorAll(ctx, verifier, filepath.Join(root, ActionsDir)); err != nil {
			return err
		}
	}
	return nil
}

// installShForVersion is the shell expression that installs the pinned
// distkit version on unix-family runners.
func installShForVersion(version string) string {
	return fmt.Sprintf(
		"curl --proto '=https' --tlsv1.2 -LsSf https://github.com/distkit/distkit/releases/download/v%s/distkit-installer.sh | sh",
		version)
}

// installPs1ForVersion is the powershell expression for windows runners.
func installPs1ForVersion(version string) string {
	return fmt.Sprintf(
		"irm https://github.com/distkit/distkit/releases/download/v%s/distkit-installer.ps1 | iex",
		version)
}

// installExprForTargets picks the installer expression for a runner by its
// first recognizable target. Unrecognized-only groups run on the default
// Linux runner, so the shell expression is the fallback.
func installExprForTargets(targets []string, installSh, installPs1 string) string {
	for _, target := range targets {
		if strings.Contains(target, "linux") || strings.Contains(target, "apple") {
			return installSh
		}
		if strings.Contains(target, "windows") {
			return installPs1
		}
	}
	return installSh
}
