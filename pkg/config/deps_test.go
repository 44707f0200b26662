package config

import "testing"

func TestPackageSpecWantedForTarget(t *testing.T) {
	tests := []struct {
		name   string
		spec   PackageSpec
		target string
		want   bool
	}{
		{"no restriction applies everywhere", PackageSpec{}, "x86_64-unknown-linux-gnu", true},
		{"wildcard applies everywhere", PackageSpec{Targets: []string{"*"}}, "aarch64-apple-darwin", true},
		{"exact match", PackageSpec{Targets: []string{"x86_64-unknown-linux-gnu"}}, "x86_64-unknown-linux-gnu", true},
		{"non-match", PackageSpec{Targets: []string{"x86_64-unknown-linux-gnu"}}, "aarch64-apple-darwin", false},
		{"wildcard among restrictions", PackageSpec{Targets: []string{"x86_64-pc-windows-msvc", "*"}}, "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.WantedForTarget(tt.target); got != tt.want {
				t.Errorf("WantedForTarget(%s) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestPackageSpecStageWanted(t *testing.T) {
	tests := []struct {
		name  string
		spec  PackageSpec
		stage DependencyStage
		want  bool
	}{
		{"no restriction applies to every stage", PackageSpec{}, StageBuild, true},
		{"matching stage", PackageSpec{Stages: []DependencyStage{StageBuild}}, StageBuild, true},
		{"non-matching stage", PackageSpec{Stages: []DependencyStage{StageRun}}, StageBuild, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.StageWanted(tt.stage); got != tt.want {
				t.Errorf("StageWanted(%s) = %v, want %v", tt.stage, got, tt.want)
			}
		})
	}
}

func TestSystemDependenciesAppend(t *testing.T) {
	var deps SystemDependencies
	deps.Append(&SystemDependencies{
		Apt:      map[string]PackageSpec{"libssl-dev": {Version: "1.1"}},
		Homebrew: map[string]PackageSpec{"protobuf": {}},
	})
	deps.Append(&SystemDependencies{
		Apt: map[string]PackageSpec{"libssl-dev": {Version: "3.0"}},
	})

	if got := deps.Apt["libssl-dev"].Version; got != "3.0" {
		t.Errorf("collision should take the appended value, got %q", got)
	}
	if _, ok := deps.Homebrew["protobuf"]; !ok {
		t.Error("earlier family entries lost on append")
	}
}

func TestSystemDependenciesAppendNil(t *testing.T) {
	var deps SystemDependencies
	deps.Append(nil)

	if !deps.IsEmpty() {
		t.Errorf("appending nil changed the set: %+v", deps)
	}
}

func TestSystemDependenciesIsEmpty(t *testing.T) {
	var deps SystemDependencies
	if !deps.IsEmpty() {
		t.Error("zero value should be empty")
	}

	deps.Append(&SystemDependencies{Chocolatey: map[string]PackageSpec{"cmake": {}}})
	if deps.IsEmpty() {
		t.Error("set with a chocolatey entry reported empty")
	}
}
