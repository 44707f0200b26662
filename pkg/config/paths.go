package config

import "path/filepath"

// MakeRelativeTo rewrites every config-file-relative path in the layer to be
// relative to base, the directory of the file the layer was decoded from.
// This must run exactly once per fragment, before merging: a relative-looking
// path that was already joined against one base must never be joined again
// against another.
//
// The rewrite is copy-on-write: nested structures holding path fields are
// cloned before mutation, so a Layer value shared between resolution calls is
// never normalized twice through aliased pointers.
//
// The path-bearing fields are a fixed list; when adding one, extend this
// function and paths_test.go.
func (l *Layer) MakeRelativeTo(base string) {
	if l.Artifacts != nil {
		artifacts := *l.Artifacts
		if artifacts.Archives != nil {
			archives := *artifacts.Archives
			archives.Include = rewritePaths(archives.Include, base)
			artifacts.Archives = &archives
		}
		if artifacts.Extra != nil {
			extra := make([]ExtraArtifact, len(artifacts.Extra))
			for i, e := range artifacts.Extra {
				e.WorkingDir = rewritePath(e.WorkingDir, base)
				extra[i] = e
			}
			artifacts.Extra = extra
		}
		l.Artifacts = &artifacts
	}

	if l.Hosts != nil && l.Hosts.Github != nil && l.Hosts.Github.SubmodulePath != nil {
		hosts := *l.Hosts
		github := *hosts.Github
		p := rewritePath(*github.SubmodulePath, base)
		github.SubmodulePath = &p
		hosts.Github = &github
		l.Hosts = &hosts
	}
}

// rewritePath joins a relative path onto base; absolute paths pass through.
func rewritePath(path, base string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func rewritePaths(paths []string, base string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = rewritePath(p, base)
	}
	return out
}
