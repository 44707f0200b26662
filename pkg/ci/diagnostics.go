package ci

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Severity is the severity of a planning diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is one structured planning diagnostic. Diagnostics are a side
// channel, not errors: planning always completes, and the caller decides what
// to surface.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Target   string   `json:"target,omitempty"`
	Message  string   `json:"message"`
}

// Diagnostics collects diagnostics for one planning run. Each run owns its
// collector; a collector is not safe for concurrent use.
type Diagnostics struct {
	logger  zerolog.Logger
	entries []Diagnostic
}

// NewDiagnostics creates a collector that also logs each diagnostic.
func NewDiagnostics(logger zerolog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Warnf records a warning about a target.
func (d *Diagnostics) Warnf(target, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.entries = append(d.entries, Diagnostic{
		Severity: SeverityWarning,
		Target:   target,
		Message:  msg,
	})
	d.logger.Warn().Str("target", target).Msg(msg)
}

// All returns every recorded diagnostic in emission order.
func (d *Diagnostics) All() []Diagnostic {
	return d.entries
}

// Warnings returns the recorded warnings.
func (d *Diagnostics) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, e := range d.entries {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}
