package stores

import "time"

// GenerationKind is the operation that produced a history record.
type GenerationKind string

const (
	GenerationKindPlan     GenerationKind = "plan"
	GenerationKindGenerate GenerationKind = "generate"
	GenerationKindCheck    GenerationKind = "check"
)

// Generation records one planning or generation run and the fingerprint of
// its output, for change detection and audit.
type Generation struct {
	// ID is a UUID assigned when the record is created.
	ID string `json:"id"`

	// Workspace is the workspace root the run operated on.
	Workspace string `json:"workspace"`

	// Kind is the operation that ran.
	Kind GenerationKind `json:"kind"`

	// OutputDigest is the sha256 of the rendered task description.
	OutputDigest string `json:"output_digest"`

	// DistVersion is the distkit version the run resolved.
	DistVersion string `json:"dist_version"`

	// CreatedAt is when the run happened.
	CreatedAt time.Time `json:"created_at"`
}
