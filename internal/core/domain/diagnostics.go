package domain

import "fmt"

// DiagnosticKind classifies a recoverable or degraded curation condition.
type DiagnosticKind string

const (
	// DiagUnknownKPI means an annotation references a KPI id missing
	// from the schema. The annotation is skipped.
	DiagUnknownKPI DiagnosticKind = "unknown-kpi"

	// DiagAlignmentMiss means no paragraph matched an annotation
	// (fragment absent from the document, or pages out of range).
	DiagAlignmentMiss DiagnosticKind = "alignment-miss"

	// DiagMalformedRow means an annotation row failed validation and
	// was skipped at ingestion.
	DiagMalformedRow DiagnosticKind = "malformed-row"

	// DiagPoolExhausted means the negative-sample pool was smaller than
	// the requested count. Degradation, not an error.
	DiagPoolExhausted DiagnosticKind = "pool-exhausted"
)

// Diagnostic is one audit entry explaining why output differs from a naive
// row count. Every skipped annotation and every degraded sampling pool
// produces exactly one entry.
type Diagnostic struct {
	// Kind classifies the condition.
	Kind DiagnosticKind

	// AnnotationID is the originating annotation row, 0 when the
	// diagnostic is not tied to a single annotation.
	AnnotationID int

	// DocumentID is the affected document, if known.
	DocumentID string

	// KPIID is the affected KPI, if known.
	KPIID string

	// Reason is a human-readable explanation.
	Reason string
}

// String renders the diagnostic for logs and CLI output.
func (d Diagnostic) String() string {
	s := string(d.Kind)
	if d.AnnotationID > 0 {
		s += fmt.Sprintf(" annotation=%d", d.AnnotationID)
	}
	if d.DocumentID != "" {
		s += fmt.Sprintf(" document=%s", d.DocumentID)
	}
	if d.KPIID != "" {
		s += fmt.Sprintf(" kpi=%s", d.KPIID)
	}
	return s + ": " + d.Reason
}

// DiagnosticsCollector accumulates diagnostics during a curation run.
// It is owned by the caller and passed through explicitly; there is no
// process-global state.
type DiagnosticsCollector struct {
	entries []Diagnostic
}

// NewDiagnosticsCollector creates an empty collector.
func NewDiagnosticsCollector() *DiagnosticsCollector {
	return &DiagnosticsCollector{}
}

// Add records a diagnostic.
func (c *DiagnosticsCollector) Add(d Diagnostic) {
	c.entries = append(c.entries, d)
}

// Entries returns the recorded diagnostics in collection order.
func (c *DiagnosticsCollector) Entries() []Diagnostic {
	out := make([]Diagnostic, len(c.entries))
	copy(out, c.entries)
	return out
}

// Count returns the number of diagnostics of the given kind.
func (c *DiagnosticsCollector) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range c.entries {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of diagnostics.
func (c *DiagnosticsCollector) Len() int {
	return len(c.entries)
}
