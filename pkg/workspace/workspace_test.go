package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func touchConfig(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverRootAsSinglePackage(t *testing.T) {
	dir := t.TempDir()
	touchConfig(t, dir)

	g, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(g.Packages))
	}
	if g.Packages[0].Root != g.Root {
		t.Errorf("single package root = %s, want workspace root %s", g.Packages[0].Root, g.Root)
	}
}

func TestDiscoverMemberPackages(t *testing.T) {
	dir := t.TempDir()
	touchConfig(t, dir)
	touchConfig(t, filepath.Join(dir, "cli"))
	touchConfig(t, filepath.Join(dir, "daemon"))

	// Subdirectories without a fragment are not packages.
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}

	g, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d: %+v", len(g.Packages), g.Packages)
	}
	// Sorted by name.
	if g.Packages[0].Name != "cli" || g.Packages[1].Name != "daemon" {
		t.Errorf("packages = %+v", g.Packages)
	}
}

func TestDiscoverSkipsHiddenAndBuildDirs(t *testing.T) {
	dir := t.TempDir()
	touchConfig(t, dir)
	touchConfig(t, filepath.Join(dir, ".cache", "pkg"))
	touchConfig(t, filepath.Join(dir, "target", "release"))
	touchConfig(t, filepath.Join(dir, "node_modules", "dep"))
	touchConfig(t, filepath.Join(dir, "cli"))

	g, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Packages) != 1 || g.Packages[0].Name != "cli" {
		t.Errorf("expected only cli, got %+v", g.Packages)
	}
}

func TestDiscoverIgnoresNestedPackages(t *testing.T) {
	dir := t.TempDir()
	touchConfig(t, dir)
	touchConfig(t, filepath.Join(dir, "cli"))
	touchConfig(t, filepath.Join(dir, "cli", "inner"))

	g, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(g.Packages) != 1 || g.Packages[0].Name != "cli" {
		t.Errorf("nested package should be ignored, got %+v", g.Packages)
	}
}

func TestDiscoverRequiresRootConfig(t *testing.T) {
	if _, err := Discover(t.TempDir()); err == nil {
		t.Error("expected error for workspace without a fragment")
	}
}

func TestGraphPackageLookup(t *testing.T) {
	g := &Graph{
		Root: "/ws",
		Packages: []Package{
			{Name: "cli", Root: "/ws/cli"},
		},
	}

	if p, ok := g.Package("cli"); !ok || p.Root != "/ws/cli" {
		t.Errorf("lookup failed: %+v, %v", p, ok)
	}
	if _, ok := g.Package("missing"); ok {
		t.Error("lookup of unknown package succeeded")
	}
}

func TestConfigPaths(t *testing.T) {
	g := &Graph{Root: "/ws"}
	if got := g.ConfigPath(); got != filepath.Join("/ws", ConfigFileName) {
		t.Errorf("workspace config path = %s", got)
	}

	p := Package{Name: "cli", Root: "/ws/cli"}
	if got := p.ConfigPath(); got != filepath.Join("/ws/cli", ConfigFileName) {
		t.Errorf("package config path = %s", got)
	}
}
