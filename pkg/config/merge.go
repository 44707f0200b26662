package config

// The merge engine applies a Layer onto a scope-specific accumulator,
// field by field: a set field overwrites the accumulated value, an unset
// field leaves it alone. Applying a layer never fails; an empty layer is a
// no-op.
//
// Every Layer field must have an explicit disposition in BOTH applyToWorkspace
// and applyToPackage: either it is applied, or it is acknowledged as
// scope-foreign in layerFieldScope. Adding a Layer field without updating the
// table breaks TestLayerFieldDispositions, which is the closest Go gets to
// exhaustive destructuring.

// fieldScope tags which scope a Layer field is honored in.
type fieldScope int

const (
	scopeWorkspace fieldScope = iota
	scopePackage
)

// layerFieldScope records the scope disposition of every Layer field, by Go
// field name. merge_test.go reflects over Layer and fails when a field is
// missing here or when a merge function disagrees with the table.
var layerFieldScope = map[string]fieldScope{
	"DistVersion": scopeWorkspace,
	"AllowDirty":  scopeWorkspace,
	"CI":          scopeWorkspace,
	"Dist":        scopePackage,
	"Targets":     scopePackage,
	"Artifacts":   scopePackage,
	"Builds":      scopePackage,
	"Hosts":       scopePackage,
	"Installers":  scopePackage,
	"Publishers":  scopePackage,
}

// applyOpt overwrites *dst when src is set.
func applyOpt[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// applyVal overwrites *dst when src is set. A set-but-empty slice still
// overwrites; only nil means "inherit".
func applyVal[T any](dst *[]T, src []T) {
	if src != nil {
		*dst = append([]T(nil), src...)
	}
}

// applyMap overwrites *dst when src is set.
func applyMap[K comparable, V any](dst *map[K]V, src map[K]V) {
	if src == nil {
		return
	}
	m := make(map[K]V, len(src))
	for k, v := range src {
		m[k] = v
	}
	*dst = m
}

// applyToWorkspace merges a layer into the workspace-scope accumulator.
func (s *workspaceState) applyLayer(l Layer) {
	applyOpt(&s.distVersion, l.DistVersion)
	applyVal(&s.allowDirty, l.AllowDirty)
	s.ci.applyLayer(l.CI)

	// Package-scope fields: honored by packageState.applyLayer, not here.
	_ = l.Dist
	_ = l.Targets
	_ = l.Artifacts
	_ = l.Builds
	_ = l.Hosts
	_ = l.Installers
	_ = l.Publishers
}

// applyToPackage merges a layer into the package-scope accumulator.
func (s *packageState) applyLayer(l Layer) {
	applyOpt(&s.dist, l.Dist)
	applyVal(&s.targets, l.Targets)
	s.artifacts.applyLayer(l.Artifacts)
	s.builds.applyLayer(l.Builds)
	s.hosts.applyLayer(l.Hosts)
	s.installers.applyLayer(l.Installers)
	s.publishers.applyLayer(l.Publishers)

	// Workspace-scope fields: honored by workspaceState.applyLayer, not here.
	_ = l.DistVersion
	_ = l.AllowDirty
	_ = l.CI
}

func (s *ciState) applyLayer(l *CILayer) {
	if l == nil {
		return
	}
	applyOpt(&s.failFast, l.FailFast)
	applyOpt(&s.dispatchReleases, l.DispatchReleases)
	applyOpt(&s.releaseBranch, l.ReleaseBranch)
	applyOpt(&s.tagNamespace, l.TagNamespace)
	applyOpt(&s.prRunMode, l.PRRunMode)
	applyOpt(&s.mergeTasks, l.MergeTasks)
	applyOpt(&s.buildLocalArtifacts, l.BuildLocalArtifacts)
	applyOpt(&s.vendorActions, l.VendorActions)
	applyMap(&s.runners, l.Runners)
	applyVal(&s.planJobs, l.PlanJobs)
	applyVal(&s.localArtifactsJobs, l.LocalArtifactsJobs)
	applyVal(&s.globalArtifactsJobs, l.GlobalArtifactsJobs)
	applyVal(&s.hostJobs, l.HostJobs)
	applyVal(&s.publishJobs, l.PublishJobs)
	applyVal(&s.postAnnounceJobs, l.PostAnnounceJobs)
}

func (s *artifactState) applyLayer(l *ArtifactLayer) {
	if l == nil {
		return
	}
	if l.Archives != nil {
		applyVal(&s.archiveIncludes, l.Archives.Include)
		applyOpt(&s.unixArchive, l.Archives.UnixArchive)
		applyOpt(&s.windowsArchive, l.Archives.WindowsArchive)
	}
	applyVal(&s.extra, l.Extra)
	applyOpt(&s.checksum, l.Checksum)
}

func (s *buildState) applyLayer(l *BuildLayer) {
	if l == nil {
		return
	}
	if l.SystemDependencies != nil {
		s.systemDependencies.Append(l.SystemDependencies)
	}
}

func (s *hostState) applyLayer(l *HostLayer) {
	if l == nil || l.Github == nil {
		return
	}
	applyOpt(&s.createRelease, l.Github.CreateRelease)
	applyOpt(&s.releasesRepo, l.Github.ReleasesRepo)
	applyOpt(&s.submodulePath, l.Github.SubmodulePath)
}

func (s *installerState) applyLayer(l *InstallerLayer) {
	if l == nil {
		return
	}
	applyOpt(&s.shell, l.Shell)
	applyOpt(&s.powershell, l.Powershell)
	applyOpt(&s.installPath, l.InstallPath)
}

func (s *publisherState) applyLayer(l *PublisherLayer) {
	if l == nil {
		return
	}
	applyOpt(&s.prereleases, l.Prereleases)
}
