package ci

import (
	"fmt"
	"sort"
	"strings"

	"github.com/distkit/distkit/pkg/config"
)

// Target triples per package-manager family. Family selection is by exact
// triple, not substring, so exotic triples never pick up the wrong package
// manager.
var (
	homebrewTargets = map[string]bool{
		"i686-apple-darwin":    true,
		"x86_64-apple-darwin":  true,
		"aarch64-apple-darwin": true,
	}
	aptTargets = map[string]bool{
		"i686-unknown-linux-gnu":     true,
		"x86_64-unknown-linux-gnu":   true,
		"aarch64-unknown-linux-gnu":  true,
		"i686-unknown-linux-musl":    true,
		"x86_64-unknown-linux-musl":  true,
		"aarch64-unknown-linux-musl": true,
	}
	chocolateyTargets = map[string]bool{
		"i686-pc-windows-msvc":    true,
		"x86_64-pc-windows-msvc":  true,
		"aarch64-pc-windows-msvc": true,
	}
)

// InstallCommandForTargets selects the system packages a runner group must
// install before building, and renders the platform-appropriate install
// command. Returns "" when nothing needs installing.
//
// The first target in the group whose family is a known package-manager
// family decides the family for the whole group. Mixed-OS groups are not
// fully supported; selection is first-match, not a union, and callers depend
// on that.
func InstallCommandForTargets(targets []string, deps *config.SystemDependencies) string {
	for _, target := range targets {
		switch {
		case homebrewTargets[target]:
			packages := selectPackages(deps.Homebrew, target, func(name string, spec config.PackageSpec) string {
				return name
			})
			if len(packages) == 0 {
				return ""
			}
			return brewBundleCommand(packages)

		case aptTargets[target]:
			packages := selectPackages(deps.Apt, target, func(name string, spec config.PackageSpec) string {
				if spec.Version != "" {
					return fmt.Sprintf("%s=%s", name, spec.Version)
				}
				return name
			})
			// musl builds may need musl-tools for anything non-trivial.
			if strings.HasSuffix(target, "linux-musl") {
				packages = append(packages, "musl-tools")
			}
			if len(packages) == 0 {
				return ""
			}
			return "sudo apt-get update && sudo apt-get install " + strings.Join(packages, " ")

		case chocolateyTargets[target]:
			commands := selectPackages(deps.Chocolatey, target, func(name string, spec config.PackageSpec) string {
				if spec.Version != "" {
					return fmt.Sprintf("choco install %s --version=%s", name, spec.Version)
				}
				return "choco install " + name
			})
			if len(commands) == 0 {
				return ""
			}
			return strings.Join(commands, "\n")
		}
	}

	return ""
}

// selectPackages filters one family's declarations down to those wanted for
// the target at the build stage, rendering each with render. Names are
// visited in sorted order for deterministic output.
func selectPackages(family map[string]config.PackageSpec, target string, render func(string, config.PackageSpec) string) []string {
	names := make([]string, 0, len(family))
	for name := range family {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		spec := family[name]
		if !spec.WantedForTarget(target) {
			continue
		}
		if !spec.StageWanted(config.StageBuild) {
			continue
		}
		out = append(out, render(name, spec))
	}
	return out
}

// brewfileFrom renders a Brewfile. `brew install` takes either a formula or a
// cask, but Brewfiles need the `cask` verb for casks and `brew` for formulas.
func brewfileFrom(packages []string) string {
	lines := make([]string, 0, len(packages))
	for _, p := range packages {
		lower := strings.ToLower(p)
		if strings.HasPrefix(lower, "homebrew/cask") || strings.HasPrefix(lower, "homebrew/homebrew-cask") {
			lines = append(lines, fmt.Sprintf("cask %q", p))
		} else {
			lines = append(lines, fmt.Sprintf("brew %q", p))
		}
	}
	return strings.Join(lines, "\n")
}

func brewBundleCommand(packages []string) string {
	return fmt.Sprintf("cat << EOF >Brewfile\n%s\nEOF\n\nbrew bundle install", brewfileFrom(packages))
}
