package config

// Layer is one sparse configuration fragment, decoded from a single dist.cue
// file. Every field is either unset (nil) and inherits, or set and overrides.
// A Layer is immutable once decoded; the merge engine consumes it field by
// field.
//
// The same Layer shape is used for both the workspace fragment and package
// fragments. Which fields are honored depends on the scope the layer is
// merged into; see merge.go for the per-scope field dispositions.
type Layer struct {
	// DistVersion is the intended distkit version to generate CI for.
	// Workspace scope.
	DistVersion *string `json:"dist_version,omitempty"`

	// AllowDirty lists generate modes that skip up-to-dateness checks.
	// Workspace scope.
	AllowDirty []string `json:"allow_dirty,omitempty"`

	// Dist controls whether the package is distributed at all.
	// Package scope.
	Dist *bool `json:"dist,omitempty"`

	// Targets is the full set of target triples to build for.
	// Package scope.
	Targets []string `json:"targets,omitempty"`

	// Artifacts configures archive contents and extra artifacts.
	// Package scope.
	Artifacts *ArtifactLayer `json:"artifacts,omitempty"`

	// Builds configures how builds run, including system dependencies.
	// Package scope.
	Builds *BuildLayer `json:"builds,omitempty"`

	// CI configures pipeline shape and runner selection.
	// Workspace scope.
	CI *CILayer `json:"ci,omitempty"`

	// Hosts configures release hosting.
	// Package scope.
	Hosts *HostLayer `json:"hosts,omitempty"`

	// Installers configures installer artifacts.
	// Package scope.
	Installers *InstallerLayer `json:"installers,omitempty"`

	// Publishers configures publish jobs.
	// Package scope.
	Publishers *PublisherLayer `json:"publishers,omitempty"`
}

// ArtifactLayer configures archives and extra artifacts.
type ArtifactLayer struct {
	// Archives configures the per-target archive contents.
	Archives *ArchiveLayer `json:"archives,omitempty"`

	// Extra are additional artifacts produced by arbitrary build commands.
	Extra []ExtraArtifact `json:"extra,omitempty"`

	// Checksum selects the checksum style for artifacts (sha256, sha512, none).
	Checksum *string `json:"checksum,omitempty"`
}

// ArchiveLayer configures what goes into release archives.
type ArchiveLayer struct {
	// Include lists extra paths to bundle into archives. Relative paths are
	// resolved against the directory of the declaring fragment.
	Include []string `json:"include,omitempty"`

	// UnixArchive is the archive format for unix-family targets (.tar.gz, .tar.xz).
	UnixArchive *string `json:"unix_archive,omitempty"`

	// WindowsArchive is the archive format for windows targets (.zip).
	WindowsArchive *string `json:"windows_archive,omitempty"`
}

// ExtraArtifact is an artifact produced by running a custom command.
type ExtraArtifact struct {
	// WorkingDir is where the build command runs. Relative paths are resolved
	// against the directory of the declaring fragment.
	WorkingDir string `json:"working_dir"`

	// Command is the build command to run.
	Command []string `json:"command"`

	// Artifacts lists the files the command produces.
	Artifacts []string `json:"artifacts"`
}

// BuildLayer configures build behavior.
type BuildLayer struct {
	// SystemDependencies declares system packages needed to build.
	SystemDependencies *SystemDependencies `json:"system_dependencies,omitempty"`
}

// CILayer configures pipeline shape: triggers, job lists, and runner
// assignment.
type CILayer struct {
	// FailFast makes one failing task cancel its siblings.
	FailFast *bool `json:"fail_fast,omitempty"`

	// DispatchReleases triggers releases by manual dispatch instead of tags.
	DispatchReleases *bool `json:"dispatch_releases,omitempty"`

	// ReleaseBranch triggers releases on pushes to this branch instead of tags.
	ReleaseBranch *string `json:"release_branch,omitempty"`

	// TagNamespace prefixes the release tag pattern and workflow filename.
	TagNamespace *string `json:"tag_namespace,omitempty"`

	// PRRunMode is what to run on pull requests (skip, plan, upload).
	PRRunMode *string `json:"pr_run_mode,omitempty"`

	// MergeTasks consolidates targets sharing a runner into one task.
	MergeTasks *bool `json:"merge_tasks,omitempty"`

	// BuildLocalArtifacts includes the built-in local artifact tasks.
	BuildLocalArtifacts *bool `json:"build_local_artifacts,omitempty"`

	// VendorActions vendors pinned external CI actions into the workspace.
	VendorActions *bool `json:"vendor_actions,omitempty"`

	// Runners overrides runner selection per target triple. The special key
	// "global" overrides the runner for the global task.
	Runners map[string]string `json:"runners,omitempty"`

	// PlanJobs are extra jobs to run at the plan stage.
	PlanJobs []string `json:"plan_jobs,omitempty"`

	// LocalArtifactsJobs are extra jobs to run alongside local artifact builds.
	LocalArtifactsJobs []string `json:"local_artifacts_jobs,omitempty"`

	// GlobalArtifactsJobs are extra jobs to run alongside the global task.
	GlobalArtifactsJobs []string `json:"global_artifacts_jobs,omitempty"`

	// HostJobs are extra jobs to run at the host stage.
	HostJobs []string `json:"host_jobs,omitempty"`

	// PublishJobs are extra jobs to run at the publish stage.
	PublishJobs []string `json:"publish_jobs,omitempty"`

	// PostAnnounceJobs are extra jobs to run after announcement.
	PostAnnounceJobs []string `json:"post_announce_jobs,omitempty"`
}

// HostLayer configures release hosting.
type HostLayer struct {
	// Github configures GitHub Releases hosting.
	Github *GithubHostLayer `json:"github,omitempty"`
}

// GithubHostLayer configures GitHub Releases hosting.
type GithubHostLayer struct {
	// CreateRelease creates the release rather than assuming one exists.
	CreateRelease *bool `json:"create_release,omitempty"`

	// ReleasesRepo is an external "owner/repo" to publish releases to.
	ReleasesRepo *string `json:"releases_repo,omitempty"`

	// SubmodulePath is the path of the submodule to release from, relative to
	// the directory of the declaring fragment.
	SubmodulePath *string `json:"submodule_path,omitempty"`
}

// InstallerLayer configures installer artifacts.
type InstallerLayer struct {
	// Shell emits a curl-pipe-sh installer.
	Shell *bool `json:"shell,omitempty"`

	// Powershell emits an irm-pipe-iex installer.
	Powershell *bool `json:"powershell,omitempty"`

	// InstallPath is where installers place binaries on the end user machine.
	InstallPath *string `json:"install_path,omitempty"`
}

// PublisherLayer configures publish jobs.
type PublisherLayer struct {
	// Prereleases publishes prerelease versions too.
	Prereleases *bool `json:"prereleases,omitempty"`
}
