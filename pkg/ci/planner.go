package ci

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy selects how targets are distributed onto runners.
type Strategy string

const (
	// StrategyConsolidate groups targets sharing a runner into one task.
	// Cheaper in machine-hours; a slow target gates its siblings and one
	// target's failure does not isolate from them.
	StrategyConsolidate Strategy = "consolidate"

	// StrategyIsolate gives every target its own task, duplicating setup
	// work in exchange for latency and fault isolation.
	StrategyIsolate Strategy = "isolate"
)

// Validate checks that the strategy is one of the known values.
func (s Strategy) Validate() error {
	switch s {
	case StrategyConsolidate, StrategyIsolate:
		return nil
	default:
		return fmt.Errorf("invalid distribution strategy: %q", string(s))
	}
}

// Default runners per platform family. Older images minimize the recent
// system dependencies that can creep into builds, which helps portability.
const (
	LinuxRunner    = "ubuntu-20.04"
	MacIntelRunner = "macos-12"
	MacArmRunner   = "macos-12"
	WindowsRunner  = "windows-2019"
)

// GlobalRunnerKey is the override-table key that selects the runner for the
// global (platform-agnostic) task.
const GlobalRunnerKey = "global"

// RunnerGroup is one planned task: a runner identity and the ordered set of
// targets assigned to it.
type RunnerGroup struct {
	Runner  string   `json:"runner"`
	Targets []string `json:"targets"`
}

// Planner maps requested build targets onto runner identities.
type Planner struct {
	overrides map[string]string
	diags     *Diagnostics
}

// NewPlanner creates a planner with a caller-supplied override table mapping
// target triples to runner identities.
func NewPlanner(overrides map[string]string, diags *Diagnostics) *Planner {
	return &Planner{overrides: overrides, diags: diags}
}

// Distribute assigns every target to exactly one runner group. The target set
// is deduplicated and iterated in sorted order, so repeated runs over the
// same inputs produce identical plans.
func (p *Planner) Distribute(strategy Strategy, targets []string) ([]RunnerGroup, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	sorted := sortedUnique(targets)

	switch strategy {
	case StrategyConsolidate:
		return p.distributeConsolidated(sorted), nil
	default:
		return p.distributeIsolated(sorted), nil
	}
}

// distributeConsolidated groups targets by their resolved runner; groups are
// emitted in runner-name order.
func (p *Planner) distributeConsolidated(targets []string) []RunnerGroup {
	byRunner := make(map[string][]string)
	for _, target := range targets {
		runner := p.runnerForTarget(target)
		byRunner[runner] = append(byRunner[runner], target)
	}

	runners := make([]string, 0, len(byRunner))
	for runner := range byRunner {
		runners = append(runners, runner)
	}
	sort.Strings(runners)

	groups := make([]RunnerGroup, 0, len(runners))
	for _, runner := range runners {
		groups = append(groups, RunnerGroup{Runner: runner, Targets: byRunner[runner]})
	}
	return groups
}

// distributeIsolated emits one singleton group per target, in target order,
// regardless of shared runner identity.
func (p *Planner) distributeIsolated(targets []string) []RunnerGroup {
	groups := make([]RunnerGroup, 0, len(targets))
	for _, target := range targets {
		groups = append(groups, RunnerGroup{
			Runner:  p.runnerForTarget(target),
			Targets: []string{target},
		})
	}
	return groups
}

// GlobalRunner returns the runner for the global task: the "global" override
// if present, otherwise the Linux runner.
func (p *Planner) GlobalRunner() string {
	if runner, ok := p.overrides[GlobalRunnerKey]; ok {
		return runner
	}
	return LinuxRunner
}

// runnerForTarget resolves a runner, warning and falling back to the Linux
// runner when the target's platform is unrecognized. Planning never fails on
// an unknown triple.
func (p *Planner) runnerForTarget(target string) string {
	if runner, ok := RunnerForTarget(target, p.overrides); ok {
		return runner
	}
	p.diags.Warnf(target, "not sure which runner should be used for %s, assuming %s", target, LinuxRunner)
	return LinuxRunner
}

// RunnerForTarget resolves the runner identity for a target: the override
// table first (exact match), then the built-in family rules checked in a
// fixed priority order. The triple is never parsed structurally; family
// dispatch is substring matching over an opaque string, which deliberately
// tolerates malformed triples via the no-match path.
func RunnerForTarget(target string, overrides map[string]string) (string, bool) {
	if runner, ok := overrides[target]; ok {
		return runner, true
	}

	switch {
	case strings.Contains(target, "linux"):
		return LinuxRunner, true
	case strings.Contains(target, "x86_64-apple"):
		return MacIntelRunner, true
	case strings.Contains(target, "aarch64-apple"):
		return MacArmRunner, true
	case strings.Contains(target, "windows"):
		return WindowsRunner, true
	default:
		return "", false
	}
}

func sortedUnique(targets []string) []string {
	seen := make(map[string]bool, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
