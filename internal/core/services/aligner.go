package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// Aligner locates the paragraphs that constitute positive evidence for
// each annotation. It only references paragraphs by weak ref and never
// copies or mutates the document structure.
type Aligner struct{}

// NewAligner creates a new alignment engine.
func NewAligner() *Aligner {
	return &Aligner{}
}

// Align maps one document's annotations onto its paragraphs and returns
// the deduplicated positive samples in first-seen order.
//
// Fragment text takes precedence over the page-number restriction: when an
// annotation carries relevant-paragraph fragments, each fragment is matched
// against the whole document; otherwise every paragraph on the annotated
// pages becomes a page-level candidate. Annotations that match nothing
// produce an alignment-miss diagnostic and no sample; an unknown KPI id
// skips the annotation with a diagnostic. Neither aborts the run.
func (a *Aligner) Align(doc *domain.ExtractedDocument, schema *domain.KPISchema, annotations []domain.Annotation, diags *domain.DiagnosticsCollector) []domain.AlignedSample {
	var ordered []domain.AlignedSample
	index := make(map[domain.SampleKey]int)

	// Same (paragraph, KPI) pair from two annotations: fragment mode
	// wins over page-level, remaining ties keep the first seen.
	add := func(s domain.AlignedSample) {
		key := s.Key()
		if at, seen := index[key]; seen {
			if ordered[at].Match == domain.MatchPageLevel && s.Match == domain.MatchFragment {
				ordered[at] = s
			}
			return
		}
		index[key] = len(ordered)
		ordered = append(ordered, s)
	}

	for _, ann := range annotations {
		if ann.SourceFile != doc.ID {
			continue
		}

		if _, ok := schema.Get(ann.KPIID); !ok {
			diags.Add(domain.Diagnostic{
				Kind:         domain.DiagUnknownKPI,
				AnnotationID: ann.ID,
				DocumentID:   doc.ID,
				KPIID:        ann.KPIID,
				Reason:       fmt.Sprintf("KPI id %q is not in the schema", ann.KPIID),
			})
			continue
		}

		if ann.HasFragments() {
			for _, frag := range ann.RelevantParagraphs {
				para, found := findFragment(doc, frag)
				if !found {
					diags.Add(domain.Diagnostic{
						Kind:         domain.DiagAlignmentMiss,
						AnnotationID: ann.ID,
						DocumentID:   doc.ID,
						KPIID:        ann.KPIID,
						Reason:       fmt.Sprintf("fragment %q not found in document", frag),
					})
					continue
				}
				add(newPositive(ann, para, domain.MatchFragment))
			}
			continue
		}

		paras := doc.ParagraphsOnPages(ann.SourcePages)
		if len(paras) == 0 {
			diags.Add(domain.Diagnostic{
				Kind:         domain.DiagAlignmentMiss,
				AnnotationID: ann.ID,
				DocumentID:   doc.ID,
				KPIID:        ann.KPIID,
				Reason:       fmt.Sprintf("no paragraphs on pages %v", ann.SourcePages),
			})
			continue
		}
		for _, para := range paras {
			add(newPositive(ann, para, domain.MatchPageLevel))
		}
	}

	return ordered
}

// findFragment returns the best paragraph containing the fragment:
// the shortest match, then the lowest (page, index). Matching is
// case-insensitive over whitespace-normalised text.
func findFragment(doc *domain.ExtractedDocument, fragment string) (domain.Paragraph, bool) {
	needle := strings.ToLower(domain.NormaliseWhitespace(fragment))
	if needle == "" {
		return domain.Paragraph{}, false
	}

	var best domain.Paragraph
	found := false
	// Document iteration is already in (page, index) order, so keeping
	// the first of equal-length matches realises the positional
	// tie-break.
	for _, para := range doc.Paragraphs() {
		if !strings.Contains(strings.ToLower(para.Text), needle) {
			continue
		}
		if !found || len(para.Text) < len(best.Text) {
			best = para
			found = true
		}
	}
	return best, found
}

// newPositive builds a positive sample carrying the annotation metadata.
func newPositive(ann domain.Annotation, para domain.Paragraph, match domain.MatchType) domain.AlignedSample {
	return domain.AlignedSample{
		Paragraph:    para.Ref(),
		KPIID:        ann.KPIID,
		Year:         ann.Year,
		Label:        domain.LabelPositive,
		Match:        match,
		AnnotationID: ann.ID,
		Answer:       ann.Answer,
		Company:      ann.Company,
		Annotator:    ann.Annotator,
		Sector:       ann.Sector,
		DataType:     ann.DataType,
	}
}
