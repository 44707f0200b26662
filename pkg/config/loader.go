package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/distkit/distkit/pkg/workspace"
)

// Loader decodes dist.cue files into sparse configuration layers.
type Loader struct {
	ctx *cue.Context
}

// NewLoader creates a new fragment loader.
func NewLoader() *Loader {
	return &Loader{ctx: cuecontext.New()}
}

// LoadFile decodes a single dist.cue file into a Layer. Fields absent from
// the file stay unset in the layer.
func (ld *Loader) LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, fmt.Errorf("failed to read config fragment: %w", err)
	}

	value := ld.ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return Layer{}, fmt.Errorf("invalid CUE in %s: %s", path, cueerrors.Details(err, nil))
	}

	var layer Layer
	if err := value.Decode(&layer); err != nil {
		return Layer{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return layer, nil
}

// LoadOptional decodes the fragment at path, returning an empty layer when
// the file does not exist. Packages without a fragment inherit everything.
func (ld *Loader) LoadOptional(path string) (Layer, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Layer{}, nil
	}
	return ld.LoadFile(path)
}

// LoadWorkspace decodes the workspace fragment and every member package's
// fragment, keyed by package name.
func (ld *Loader) LoadWorkspace(g *workspace.Graph) (Layer, map[string]Layer, error) {
	wsLayer, err := ld.LoadFile(g.ConfigPath())
	if err != nil {
		return Layer{}, nil, err
	}

	pkgLayers := make(map[string]Layer, len(g.Packages))
	for _, pkg := range g.Packages {
		// The root package shares the workspace fragment; loading it again
		// would double-apply it as a package layer.
		if pkg.ConfigPath() == g.ConfigPath() {
			pkgLayers[pkg.Name] = Layer{}
			continue
		}
		layer, err := ld.LoadOptional(pkg.ConfigPath())
		if err != nil {
			return Layer{}, nil, err
		}
		pkgLayers[pkg.Name] = layer
	}
	return wsLayer, pkgLayers, nil
}
