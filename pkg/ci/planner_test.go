package ci

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func newTestPlanner(overrides map[string]string) (*Planner, *Diagnostics) {
	diags := NewDiagnostics(zerolog.Nop())
	return NewPlanner(overrides, diags), diags
}

func TestRunnerForTargetFamilies(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"x86_64-unknown-linux-gnu", LinuxRunner},
		{"aarch64-unknown-linux-musl", LinuxRunner},
		{"x86_64-apple-darwin", MacIntelRunner},
		{"aarch64-apple-darwin", MacArmRunner},
		{"x86_64-pc-windows-msvc", WindowsRunner},
		{"aarch64-pc-windows-msvc", WindowsRunner},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, ok := RunnerForTarget(tt.target, nil)
			if !ok {
				t.Fatalf("no runner resolved for %s", tt.target)
			}
			if got != tt.want {
				t.Errorf("runner = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunnerForTargetUnknown(t *testing.T) {
	if _, ok := RunnerForTarget("wasm32-unknown-unknown", nil); ok {
		t.Error("unknown platform should not resolve")
	}
}

func TestRunnerForTargetOverrideWins(t *testing.T) {
	overrides := map[string]string{"x86_64-unknown-linux-gnu": "buildjet-8vcpu-ubuntu-2004"}

	got, ok := RunnerForTarget("x86_64-unknown-linux-gnu", overrides)
	if !ok || got != "buildjet-8vcpu-ubuntu-2004" {
		t.Errorf("override not honored: %s, %v", got, ok)
	}

	// Targets outside the table still use the family rules.
	got, ok = RunnerForTarget("aarch64-apple-darwin", overrides)
	if !ok || got != MacArmRunner {
		t.Errorf("family fallback broken under overrides: %s, %v", got, ok)
	}
}

func TestDistributeUnknownTargetWarnsAndDefaults(t *testing.T) {
	planner, diags := newTestPlanner(nil)

	groups, err := planner.Distribute(StrategyIsolate, []string{"wasm32-unknown-unknown"})
	if err != nil {
		t.Fatalf("planning must not fail on unknown targets: %v", err)
	}
	if len(groups) != 1 || groups[0].Runner != LinuxRunner {
		t.Errorf("unknown target should land on the default runner: %+v", groups)
	}

	warnings := diags.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Target != "wasm32-unknown-unknown" {
		t.Errorf("warning target = %s", warnings[0].Target)
	}
}

func TestDistributeConsolidateGroupsByRunner(t *testing.T) {
	planner, _ := newTestPlanner(nil)

	groups, err := planner.Distribute(StrategyConsolidate, []string{
		"aarch64-unknown-linux-gnu",
		"x86_64-pc-windows-msvc",
		"x86_64-unknown-linux-gnu",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []RunnerGroup{
		{Runner: LinuxRunner, Targets: []string{"aarch64-unknown-linux-gnu", "x86_64-unknown-linux-gnu"}},
		{Runner: WindowsRunner, Targets: []string{"x86_64-pc-windows-msvc"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %+v, want %+v", groups, want)
	}
}

func TestDistributeIsolateSingletons(t *testing.T) {
	planner, _ := newTestPlanner(nil)

	groups, err := planner.Distribute(StrategyIsolate, []string{
		"x86_64-unknown-linux-gnu",
		"aarch64-unknown-linux-gnu",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected one group per target, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g.Targets) != 1 {
			t.Errorf("isolate group holds %d targets: %+v", len(g.Targets), g)
		}
		if g.Runner != LinuxRunner {
			t.Errorf("runner = %s, want %s", g.Runner, LinuxRunner)
		}
	}
}

// Every requested target appears in exactly one group, under either strategy,
// regardless of input order or duplication.
func TestDistributeCoversEveryTargetOnce(t *testing.T) {
	targets := []string{
		"x86_64-pc-windows-msvc",
		"x86_64-unknown-linux-gnu",
		"x86_64-unknown-linux-gnu",
		"aarch64-apple-darwin",
	}

	for _, strategy := range []Strategy{StrategyConsolidate, StrategyIsolate} {
		planner, _ := newTestPlanner(nil)
		groups, err := planner.Distribute(strategy, targets)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", strategy, err)
		}

		seen := make(map[string]int)
		for _, g := range groups {
			for _, target := range g.Targets {
				seen[target]++
			}
		}
		for _, target := range targets {
			if seen[target] != 1 {
				t.Errorf("%s: target %s assigned %d times", strategy, target, seen[target])
			}
		}
	}
}

func TestDistributeDeterministic(t *testing.T) {
	targets := []string{
		"aarch64-apple-darwin",
		"x86_64-unknown-linux-gnu",
		"x86_64-pc-windows-msvc",
	}
	reversed := []string{
		"x86_64-pc-windows-msvc",
		"x86_64-unknown-linux-gnu",
		"aarch64-apple-darwin",
	}

	plannerA, _ := newTestPlanner(nil)
	plannerB, _ := newTestPlanner(nil)
	a, _ := plannerA.Distribute(StrategyConsolidate, targets)
	b, _ := plannerB.Distribute(StrategyConsolidate, reversed)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("input order changed the plan:\na: %+v\nb: %+v", a, b)
	}
}

func TestDistributeRejectsUnknownStrategy(t *testing.T) {
	planner, _ := newTestPlanner(nil)

	if _, err := planner.Distribute(Strategy("shuffle"), []string{"x86_64-unknown-linux-gnu"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestGlobalRunner(t *testing.T) {
	planner, _ := newTestPlanner(nil)
	if got := planner.GlobalRunner(); got != LinuxRunner {
		t.Errorf("global runner = %s, want %s", got, LinuxRunner)
	}

	planner, _ = newTestPlanner(map[string]string{GlobalRunnerKey: "macos-14"})
	if got := planner.GlobalRunner(); got != "macos-14" {
		t.Errorf("global runner override not honored: %s", got)
	}
}
