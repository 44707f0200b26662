package config

import (
	"path/filepath"

	"github.com/distkit/distkit/pkg/workspace"
)

// CurrentVersion is the distkit version baked into generated CI when the
// configuration does not pin one.
const CurrentVersion = "0.4.0"

// Defaults applied during the inheritance pass.
const (
	DefaultChecksum       = "sha256"
	DefaultUnixArchive    = ".tar.gz"
	DefaultWindowsArchive = ".zip"
	DefaultInstallPath    = "~/.local/bin"
	DefaultPRRunMode      = "plan"
)

// WorkspaceConfig is the fully resolved workspace-scope configuration.
// No field is unset; resolution applied defaults and the workspace layer.
type WorkspaceConfig struct {
	// DistVersion is the distkit version used in generated CI.
	DistVersion string `json:"dist_version" validate:"required"`

	// AllowDirty lists generate modes that skip up-to-dateness checks.
	AllowDirty []string `json:"allow_dirty"`

	// CI is the resolved pipeline-shape configuration.
	CI CIConfig `json:"ci"`
}

// CIConfig is the resolved workspace-scope CI configuration.
type CIConfig struct {
	FailFast            bool              `json:"fail_fast"`
	DispatchReleases    bool              `json:"dispatch_releases"`
	ReleaseBranch       string            `json:"release_branch"`
	TagNamespace        string            `json:"tag_namespace"`
	PRRunMode           string            `json:"pr_run_mode" validate:"oneof=skip plan upload"`
	MergeTasks          bool              `json:"merge_tasks"`
	BuildLocalArtifacts bool              `json:"build_local_artifacts"`
	VendorActions       bool              `json:"vendor_actions"`
	Runners             map[string]string `json:"runners"`
	PlanJobs            []string          `json:"plan_jobs"`
	LocalArtifactsJobs  []string          `json:"local_artifacts_jobs"`
	GlobalArtifactsJobs []string          `json:"global_artifacts_jobs"`
	HostJobs            []string          `json:"host_jobs"`
	PublishJobs         []string          `json:"publish_jobs"`
	PostAnnounceJobs    []string          `json:"post_announce_jobs"`
}

// AppConfig is the fully resolved configuration for one package.
type AppConfig struct {
	// Name and Root identify the package this configuration resolves.
	Name string `json:"name" validate:"required"`
	Root string `json:"root" validate:"required"`

	// Dist is whether the package is distributed at all.
	Dist bool `json:"dist"`

	// Targets is the full set of target triples to build for.
	Targets []string `json:"targets"`

	Artifacts  ArtifactConfig  `json:"artifacts"`
	Builds     BuildConfig     `json:"builds"`
	Hosts      HostConfig      `json:"hosts"`
	Installers InstallerConfig `json:"installers"`
	Publishers PublisherConfig `json:"publishers"`

	// CI is inherited from the resolved workspace scope; packages cannot
	// override it, but planning consumes it per package.
	CI CIConfig `json:"ci"`
}

// ArtifactConfig is the resolved artifact configuration.
type ArtifactConfig struct {
	ArchiveIncludes []string        `json:"archive_includes"`
	UnixArchive     string          `json:"unix_archive" validate:"oneof=.tar.gz .tar.xz .tar.zst"`
	WindowsArchive  string          `json:"windows_archive" validate:"oneof=.zip .tar.gz"`
	Checksum        string          `json:"checksum" validate:"oneof=sha256 sha512 none"`
	Extra           []ExtraArtifact `json:"extra"`
}

// BuildConfig is the resolved build configuration.
type BuildConfig struct {
	SystemDependencies SystemDependencies `json:"system_dependencies"`
}

// HostConfig is the resolved hosting configuration.
type HostConfig struct {
	CreateRelease bool   `json:"create_release"`
	ReleasesRepo  string `json:"releases_repo"`
	SubmodulePath string `json:"submodule_path"`
}

// InstallerConfig is the resolved installer configuration.
type InstallerConfig struct {
	Shell       bool   `json:"shell"`
	Powershell  bool   `json:"powershell"`
	InstallPath string `json:"install_path" validate:"required"`
}

// PublisherConfig is the resolved publisher configuration.
type PublisherConfig struct {
	Prereleases bool `json:"prereleases"`
}

// workspaceState accumulates workspace-scope fields across layers. Unset
// fields stay nil until the inheritance pass fills them with defaults.
type workspaceState struct {
	distVersion *string
	allowDirty  []string
	ci          ciState
}

type ciState struct {
	failFast            *bool
	dispatchReleases    *bool
	releaseBranch       *string
	tagNamespace        *string
	prRunMode           *string
	mergeTasks          *bool
	buildLocalArtifacts *bool
	vendorActions       *bool
	runners             map[string]string
	planJobs            []string
	localArtifactsJobs  []string
	globalArtifactsJobs []string
	hostJobs            []string
	publishJobs         []string
	postAnnounceJobs    []string
}

// packageState accumulates package-scope fields across layers.
type packageState struct {
	dist       *bool
	targets    []string
	artifacts  artifactState
	builds     buildState
	hosts      hostState
	installers installerState
	publishers publisherState
}

type artifactState struct {
	archiveIncludes []string
	unixArchive     *string
	windowsArchive  *string
	checksum        *string
	extra           []ExtraArtifact
}

type buildState struct {
	systemDependencies SystemDependencies
}

type hostState struct {
	createRelease *bool
	releasesRepo  *string
	submodulePath *string
}

type installerState struct {
	shell       *bool
	powershell  *bool
	installPath *string
}

type publisherState struct {
	prereleases *bool
}

// defaultsForWorkspace builds the workspace accumulator purely from project
// introspection; no fragment is involved.
func defaultsForWorkspace(g *workspace.Graph) *workspaceState {
	_ = g
	return &workspaceState{}
}

// defaultsForPackage builds the package accumulator from the resolved
// workspace state plus per-package introspection.
func defaultsForPackage(g *workspace.Graph, pkg workspace.Package) *packageState {
	_ = g
	_ = pkg
	return &packageState{}
}

// ResolveWorkspace computes the workspace-scope Resolved Configuration:
// normalize fragment paths, start from introspected defaults, apply the
// workspace fragment, then fill the remaining fields with defaults.
func ResolveWorkspace(g *workspace.Graph, wsLayer Layer) WorkspaceConfig {
	wsLayer.MakeRelativeTo(g.Root)

	state := defaultsForWorkspace(g)
	state.applyLayer(wsLayer)
	return state.finish()
}

// ResolvePackage computes a package's Resolved Configuration. The workspace
// fragment's package-scope fields apply first so that package-local settings
// always win; the inheritance pass then fills still-unset fields from the
// resolved workspace scope and the documented defaults.
func ResolvePackage(g *workspace.Graph, pkg workspace.Package, wsLayer, pkgLayer Layer) AppConfig {
	// Paths must be rewritten against the declaring directory before any
	// merge; once merged, a value's origin is lost.
	wsLayer.MakeRelativeTo(g.Root)
	pkgLayer.MakeRelativeTo(pkg.Root)

	wsCfg := resolveWorkspaceNormalized(g, wsLayer)

	state := defaultsForPackage(g, pkg)
	state.applyLayer(wsLayer)
	state.applyLayer(pkgLayer)
	return state.finish(pkg, wsCfg)
}

// resolveWorkspaceNormalized is ResolveWorkspace for a layer whose paths have
// already been rewritten. Normalization must not run twice.
func resolveWorkspaceNormalized(g *workspace.Graph, wsLayer Layer) WorkspaceConfig {
	state := defaultsForWorkspace(g)
	state.applyLayer(wsLayer)
	return state.finish()
}

// finish applies defaults to every still-unset workspace field. The result
// has no unset fields.
func (s *workspaceState) finish() WorkspaceConfig {
	return WorkspaceConfig{
		DistVersion: orDefault(s.distVersion, CurrentVersion),
		AllowDirty:  orSlice(s.allowDirty),
		CI:          s.ci.finish(),
	}
}

func (s *ciState) finish() CIConfig {
	return CIConfig{
		FailFast:            orDefault(s.failFast, false),
		DispatchReleases:    orDefault(s.dispatchReleases, false),
		ReleaseBranch:       orDefault(s.releaseBranch, ""),
		TagNamespace:        orDefault(s.tagNamespace, ""),
		PRRunMode:           orDefault(s.prRunMode, DefaultPRRunMode),
		MergeTasks:          orDefault(s.mergeTasks, false),
		BuildLocalArtifacts: orDefault(s.buildLocalArtifacts, true),
		VendorActions:       orDefault(s.vendorActions, false),
		Runners:             orMap(s.runners),
		PlanJobs:            orSlice(s.planJobs),
		LocalArtifactsJobs:  orSlice(s.localArtifactsJobs),
		GlobalArtifactsJobs: orSlice(s.globalArtifactsJobs),
		HostJobs:            orSlice(s.hostJobs),
		PublishJobs:         orSlice(s.publishJobs),
		PostAnnounceJobs:    orSlice(s.postAnnounceJobs),
	}
}

// finish runs the inheritance pass: still-unset package fields fall back to
// the resolved workspace scope, then to the documented defaults.
func (s *packageState) finish(pkg workspace.Package, ws WorkspaceConfig) AppConfig {
	return AppConfig{
		Name:    pkg.Name,
		Root:    pkg.Root,
		Dist:    orDefault(s.dist, true),
		Targets: orSlice(s.targets),
		Artifacts: ArtifactConfig{
			ArchiveIncludes: orSlice(s.artifacts.archiveIncludes),
			UnixArchive:     orDefault(s.artifacts.unixArchive, DefaultUnixArchive),
			WindowsArchive:  orDefault(s.artifacts.windowsArchive, DefaultWindowsArchive),
			Checksum:        orDefault(s.artifacts.checksum, DefaultChecksum),
			Extra:           orSlice(s.artifacts.extra),
		},
		Builds: BuildConfig{
			SystemDependencies: s.builds.systemDependencies.clone(),
		},
		Hosts: HostConfig{
			CreateRelease: orDefault(s.hosts.createRelease, true),
			ReleasesRepo:  orDefault(s.hosts.releasesRepo, ""),
			SubmodulePath: orDefault(s.hosts.submodulePath, ""),
		},
		Installers: InstallerConfig{
			Shell:       orDefault(s.installers.shell, true),
			Powershell:  orDefault(s.installers.powershell, true),
			InstallPath: orDefault(s.installers.installPath, defaultInstallPathFor(pkg)),
		},
		Publishers: PublisherConfig{
			Prereleases: orDefault(s.publishers.prereleases, false),
		},
		CI: ws.CI,
	}
}

// defaultInstallPathFor is per-package introspection feeding the inheritance
// pass; today every package shares the same default.
func defaultInstallPathFor(pkg workspace.Package) string {
	_ = filepath.Base(pkg.Root)
	return DefaultInstallPath
}

func orDefault[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

func orSlice[T any](v []T) []T {
	if v != nil {
		return v
	}
	return []T{}
}

func orMap(v map[string]string) map[string]string {
	if v != nil {
		return v
	}
	return map[string]string{}
}
