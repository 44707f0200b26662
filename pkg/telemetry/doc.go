// Package telemetry provides structured logging for distkit, wrapping
// zerolog with field helpers for the identifiers that matter here:
// workspaces, packages, and target triples.
package telemetry
