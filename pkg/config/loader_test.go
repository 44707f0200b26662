package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/distkit/distkit/pkg/workspace"
)

func writeFragment(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, workspace.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fragment: %v", err)
	}
	return path
}

func TestLoadFileDecodesSparseLayer(t *testing.T) {
	dir := t.TempDir()
	path := writeFragment(t, dir, `
dist_version: "0.3.0"
targets: ["x86_64-unknown-linux-gnu", "aarch64-apple-darwin"]
ci: {
	fail_fast: true
	runners: {
		"x86_64-unknown-linux-gnu": "buildjet-8vcpu-ubuntu-2004"
	}
}
`)

	layer, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if layer.DistVersion == nil || *layer.DistVersion != "0.3.0" {
		t.Errorf("dist_version = %v, want 0.3.0", layer.DistVersion)
	}
	if len(layer.Targets) != 2 {
		t.Errorf("targets = %v, want 2 entries", layer.Targets)
	}
	if layer.CI == nil || layer.CI.FailFast == nil || !*layer.CI.FailFast {
		t.Error("ci.fail_fast not decoded")
	}
	if layer.CI.Runners["x86_64-unknown-linux-gnu"] != "buildjet-8vcpu-ubuntu-2004" {
		t.Errorf("ci.runners not decoded: %v", layer.CI.Runners)
	}

	// Fields absent from the file must stay unset, not zero.
	if layer.Dist != nil {
		t.Error("absent dist field decoded as set")
	}
	if layer.Artifacts != nil {
		t.Error("absent artifacts section decoded as set")
	}
}

func TestLoadFileDecodesSystemDependencies(t *testing.T) {
	dir := t.TempDir()
	path := writeFragment(t, dir, `
builds: system_dependencies: apt: {
	"libssl-dev": {version: "3.0"}
	"protobuf-compiler": {targets: ["x86_64-unknown-linux-gnu"], stages: ["build"]}
}
`)

	layer, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deps := layer.Builds.SystemDependencies
	if deps == nil {
		t.Fatal("system_dependencies not decoded")
	}
	if got := deps.Apt["libssl-dev"].Version; got != "3.0" {
		t.Errorf("libssl-dev version = %q, want 3.0", got)
	}
	spec := deps.Apt["protobuf-compiler"]
	if len(spec.Targets) != 1 || len(spec.Stages) != 1 || spec.Stages[0] != StageBuild {
		t.Errorf("protobuf-compiler spec not decoded: %+v", spec)
	}
}

func TestLoadFileRejectsInvalidCUE(t *testing.T) {
	dir := t.TempDir()
	path := writeFragment(t, dir, `dist_version: "0.3.0" invalid syntax here`)

	if _, err := NewLoader().LoadFile(path); err == nil {
		t.Error("expected error for invalid CUE")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	layer, err := NewLoader().LoadOptional(filepath.Join(t.TempDir(), workspace.ConfigFileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layer.DistVersion != nil || layer.Targets != nil || layer.CI != nil {
		t.Errorf("missing file should decode to an empty layer: %+v", layer)
	}
}

func TestLoadWorkspaceRootPackageGetsEmptyLayer(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, `dist_version: "0.3.0"`)

	g, err := workspace.Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	wsLayer, pkgLayers, err := NewLoader().LoadWorkspace(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wsLayer.DistVersion == nil || *wsLayer.DistVersion != "0.3.0" {
		t.Errorf("workspace layer not loaded: %+v", wsLayer)
	}

	// The root package shares the workspace fragment; its package layer must
	// be empty or the fragment would apply twice.
	rootPkg := g.Packages[0]
	if layer := pkgLayers[rootPkg.Name]; layer.DistVersion != nil {
		t.Error("root package layer duplicates the workspace fragment")
	}
}

func TestLoadWorkspaceMemberFragments(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, `dist_version: "0.3.0"`)

	pkgDir := filepath.Join(dir, "cli")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFragment(t, pkgDir, `targets: ["x86_64-unknown-linux-gnu"]`)

	g, err := workspace.Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	_, pkgLayers, err := NewLoader().LoadWorkspace(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layer, ok := pkgLayers["cli"]
	if !ok {
		t.Fatalf("member package missing from layers: %v", pkgLayers)
	}
	if len(layer.Targets) != 1 || layer.Targets[0] != "x86_64-unknown-linux-gnu" {
		t.Errorf("member layer not decoded: %+v", layer)
	}
}
