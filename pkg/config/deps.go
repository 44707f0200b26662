package config

// DependencyStage is a build stage a system dependency is needed for.
type DependencyStage string

const (
	// StageBuild marks a dependency needed while building artifacts.
	StageBuild DependencyStage = "build"

	// StageRun marks a dependency needed by the built artifacts at run time.
	StageRun DependencyStage = "run"
)

// PackageSpec describes one declared system package: an optional version pin,
// a target-applicability predicate, and a stage-applicability predicate.
type PackageSpec struct {
	// Version pins the package version. Empty means "whatever the package
	// manager resolves".
	Version string `json:"version,omitempty"`

	// Targets restricts the dependency to these target triples. The single
	// entry "*" (or an empty list) applies to every target.
	Targets []string `json:"targets,omitempty"`

	// Stages restricts the dependency to these build stages. Empty means
	// every stage.
	Stages []DependencyStage `json:"stages,omitempty"`
}

// WantedForTarget reports whether the dependency applies to the target.
func (s PackageSpec) WantedForTarget(target string) bool {
	if len(s.Targets) == 0 {
		return true
	}
	for _, t := range s.Targets {
		if t == "*" || t == target {
			return true
		}
	}
	return false
}

// StageWanted reports whether the dependency applies to the stage.
func (s PackageSpec) StageWanted(stage DependencyStage) bool {
	if len(s.Stages) == 0 {
		return true
	}
	for _, st := range s.Stages {
		if st == stage {
			return true
		}
	}
	return false
}

// SystemDependencies declares system packages per package-manager family,
// one family per major OS: Homebrew (macOS), apt (Linux), Chocolatey
// (Windows).
type SystemDependencies struct {
	Homebrew   map[string]PackageSpec `json:"homebrew,omitempty"`
	Apt        map[string]PackageSpec `json:"apt,omitempty"`
	Chocolatey map[string]PackageSpec `json:"chocolatey,omitempty"`
}

// Append merges other into s; entries in other win on name collisions.
func (s *SystemDependencies) Append(other *SystemDependencies) {
	if other == nil {
		return
	}
	s.Homebrew = mergeSpecs(s.Homebrew, other.Homebrew)
	s.Apt = mergeSpecs(s.Apt, other.Apt)
	s.Chocolatey = mergeSpecs(s.Chocolatey, other.Chocolatey)
}

// IsEmpty reports whether no dependency is declared in any family.
func (s *SystemDependencies) IsEmpty() bool {
	return len(s.Homebrew) == 0 && len(s.Apt) == 0 && len(s.Chocolatey) == 0
}

func (s *SystemDependencies) clone() SystemDependencies {
	var out SystemDependencies
	out.Append(s)
	return out
}

func mergeSpecs(dst, src map[string]PackageSpec) map[string]PackageSpec {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]PackageSpec, len(src))
	}
	for name, spec := range src {
		dst[name] = spec
	}
	return dst
}
