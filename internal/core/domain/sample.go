package domain

// Label marks a sample as relevant or not relevant evidence for its KPI.
type Label int

const (
	// LabelNegative marks a paragraph as confirmed non-relevant.
	LabelNegative Label = 0

	// LabelPositive marks a paragraph as confirmed relevant.
	LabelPositive Label = 1
)

// MatchType records how a sample was produced, so downstream consumers can
// weight confidence.
type MatchType string

const (
	// MatchFragment means the paragraph was located by substring match
	// against an annotator-supplied text fragment. Highest precision.
	MatchFragment MatchType = "fragment"

	// MatchPageLevel means every paragraph on the annotated pages was
	// taken as a candidate. Coarser, lower-precision signal.
	MatchPageLevel MatchType = "page-level"

	// MatchSynthetic marks a sampled negative with no originating
	// annotation.
	MatchSynthetic MatchType = "synthetic"
)

// AlignedSample is one labelled (paragraph, KPI) pair, the unit written to
// the curated dataset. Immutable once created. The paragraph is held as a
// weak reference and resolved against the document store at write time.
type AlignedSample struct {
	// Paragraph references the evidence paragraph.
	Paragraph ParagraphRef

	// KPIID is the KPI this sample is evidence for (positives) or
	// contrasted against (negatives).
	KPIID string

	// Year is the reporting year carried from the annotation.
	Year string

	// Label is positive or negative.
	Label Label

	// Match records the alignment precision tier.
	Match MatchType

	// AnnotationID is the originating annotation, 0 for synthetic
	// negatives.
	AnnotationID int

	// Answer is the annotated answer text. Positives only.
	Answer string

	// Company, Annotator, Sector and DataType are carried through from
	// the originating annotation where applicable.
	Company   string
	Annotator string
	Sector    string
	DataType  string
}

// SampleKey is the dedup identity of a sample: the same (paragraph, KPI)
// pair is written at most once regardless of how many annotators hit it.
type SampleKey struct {
	Paragraph ParagraphRef
	KPIID     string
}

// Key returns the sample's dedup identity.
func (s AlignedSample) Key() SampleKey {
	return SampleKey{Paragraph: s.Paragraph, KPIID: s.KPIID}
}

// DatasetRow is one flat row of the final curated dataset.
type DatasetRow struct {
	Company        string
	SourceFile     string
	PageNumber     int
	ParagraphIndex int
	KPIID          string
	Question       string
	Year           string
	Answer         string
	Paragraph      string
	Label          Label
	Match          MatchType
	Annotator      string
	Sector         string
	DataType       string
}
