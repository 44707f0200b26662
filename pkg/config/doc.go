// Package config implements distkit's layered configuration model: sparse
// fragments decoded from dist.cue files, merged across scopes into fully
// resolved workspace and package configurations.
//
// # Overview
//
// Configuration is declared at two scopes. The workspace fragment at the
// workspace root sets workspace-wide settings and package-scope defaults;
// each member package may carry its own fragment overriding the package-scope
// settings. Resolution runs a fixed pipeline:
//
//	defaults -> apply(workspace fragment) -> apply(package fragment) -> inherit
//
// Fragments are sparse: an unset field inherits, a set field overrides. The
// pipeline order is load-bearing; package-local settings always win over
// workspace-wide ones, never the reverse.
//
// # Components
//
// Layer: one decoded fragment. Loader turns dist.cue files into Layers.
//
// Merge engine (merge.go): applies a Layer onto a scope-specific accumulator.
// Every Layer field has an explicit per-scope disposition, enforced by a
// reflection test, so a new field cannot silently skip a merge site.
//
// Path normalizer (paths.go): rewrites config-file-relative paths against the
// declaring file's directory, exactly once per fragment, before merging.
//
// Scope resolver (resolve.go): ResolveWorkspace and ResolvePackage produce
// WorkspaceConfig and AppConfig values with no unset fields.
//
// # Usage Example
//
//	graph, err := workspace.Discover(".")
//	loader := config.NewLoader()
//	wsLayer, pkgLayers, err := loader.LoadWorkspace(graph)
//	wsCfg := config.ResolveWorkspace(graph, wsLayer)
//	for _, pkg := range graph.Packages {
//	    appCfg := config.ResolvePackage(graph, pkg, wsLayer, pkgLayers[pkg.Name])
//	    // ...
//	}
package config
