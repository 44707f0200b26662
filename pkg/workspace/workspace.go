// Package workspace provides project introspection for distkit: the workspace
// root, the set of member packages, and each package's root directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigFileName is the name of the distkit configuration fragment in a
// workspace root or package root.
const ConfigFileName = "dist.cue"

// Package is one member package of a workspace.
type Package struct {
	// Name is the package name, derived from the package directory.
	Name string `json:"name"`

	// Root is the absolute path of the package directory.
	Root string `json:"root"`
}

// ConfigPath returns the path of the package's configuration fragment.
// The file may not exist; packages without a fragment inherit everything.
func (p Package) ConfigPath() string {
	return filepath.Join(p.Root, ConfigFileName)
}

// Graph describes a workspace: its root directory and its member packages.
type Graph struct {
	// Root is the absolute path of the workspace root.
	Root string `json:"root"`

	// Packages are the member packages, sorted by name.
	Packages []Package `json:"packages"`
}

// ConfigPath returns the path of the workspace-level configuration fragment.
func (g *Graph) ConfigPath() string {
	return filepath.Join(g.Root, ConfigFileName)
}

// Package looks up a member package by name.
func (g *Graph) Package(name string) (Package, bool) {
	for _, p := range g.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// Discover builds the workspace graph rooted at dir. The root must contain a
// dist.cue fragment. Any subdirectory carrying its own dist.cue is a member
// package; hidden directories and common build output directories are
// skipped. A workspace with no member packages treats the root itself as a
// single package.
func Discover(dir string) (*Graph, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	if _, err := os.Stat(filepath.Join(root, ConfigFileName)); err != nil {
		return nil, fmt.Errorf("no %s found in %s: %w", ConfigFileName, root, err)
	}

	var packages []Package
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || skippedDirs[name] {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, ConfigFileName)); err == nil {
			packages = append(packages, Package{Name: name, Root: path})
			// Nested packages are not supported.
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}

	if len(packages) == 0 {
		packages = append(packages, Package{Name: filepath.Base(root), Root: root})
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	return &Graph{Root: root, Packages: packages}, nil
}

// skippedDirs are directory names never scanned for member packages.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
}
