package domain

// Annotation is one human annotation record: a KPI answered from a source
// document, optionally pinned to explicit paragraph text.
// Annotations are loaded once per curation run and read-only thereafter.
type Annotation struct {
	// ID is the 1-based row number in the annotation set, used to
	// correlate diagnostics back to the source file.
	ID int

	// Company is the reporting company the document belongs to.
	Company string

	// SourceFile identifies the annotated document.
	SourceFile string

	// SourcePages lists the page numbers the answer was found on.
	SourcePages []int

	// KPIID references a KPIDefinition in the schema.
	KPIID string

	// Year is the reporting year the answer refers to. Optional.
	Year string

	// Answer is the annotated answer text.
	Answer string

	// RelevantParagraphs holds the annotator's verbatim text fragments,
	// in order. Empty means page-only alignment.
	RelevantParagraphs []string

	// Annotator identifies who produced the annotation.
	Annotator string

	// Sector is the company's sector code.
	Sector string

	// DataType is the annotated answer's data type.
	DataType string
}

// HasFragments reports whether explicit paragraph fragments were given.
// Fragment text takes precedence over the page-number restriction.
func (a Annotation) HasFragments() bool {
	return len(a.RelevantParagraphs) > 0
}
