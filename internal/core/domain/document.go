package domain

import "strings"

// ExtractedDocument is the structured representation of one extracted
// document: ordered pages, each with an ordered sequence of paragraphs.
// It is produced by the extraction step (or an external extractor) and
// consumed read-only by curation.
type ExtractedDocument struct {
	// ID is the unique document identifier, conventionally the source
	// file name (e.g. "report-2023.pdf").
	ID string

	// SourceFile is the original location of the extracted file.
	SourceFile string

	// Pages holds the pages in ascending page-number order.
	Pages []Page
}

// Page is one page of an extracted document.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Paragraphs holds the text blocks in reading order.
	Paragraphs []Paragraph
}

// Paragraph is an immutable text span within a page.
// Text is whitespace-normalised once at ingestion and never mutated.
type Paragraph struct {
	// DocumentID links to the owning ExtractedDocument.
	DocumentID string

	// PageNumber is the 1-based page this paragraph appears on.
	PageNumber int

	// Index is the 0-based position within the page.
	Index int

	// Text is the normalised paragraph text.
	Text string
}

// Ref returns the weak reference identifying this paragraph.
func (p Paragraph) Ref() ParagraphRef {
	return ParagraphRef{
		DocumentID: p.DocumentID,
		PageNumber: p.PageNumber,
		Index:      p.Index,
	}
}

// ParagraphRef identifies a paragraph without copying it. Samples hold
// refs; the paragraph text is resolved against the document at write time.
type ParagraphRef struct {
	// DocumentID links to the owning ExtractedDocument.
	DocumentID string

	// PageNumber is the 1-based page number.
	PageNumber int

	// Index is the 0-based position within the page.
	Index int
}

// Less orders refs by (page, index). Used for stable output ordering.
func (r ParagraphRef) Less(other ParagraphRef) bool {
	if r.PageNumber != other.PageNumber {
		return r.PageNumber < other.PageNumber
	}
	return r.Index < other.Index
}

// Paragraphs returns every paragraph of the document in page order.
func (d *ExtractedDocument) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, page := range d.Pages {
		out = append(out, page.Paragraphs...)
	}
	return out
}

// ParagraphsOnPages returns the paragraphs on the given pages, in page
// order. Unknown page numbers are ignored.
func (d *ExtractedDocument) ParagraphsOnPages(pages []int) []Paragraph {
	wanted := make(map[int]bool, len(pages))
	for _, p := range pages {
		wanted[p] = true
	}

	var out []Paragraph
	for _, page := range d.Pages {
		if !wanted[page.Number] {
			continue
		}
		out = append(out, page.Paragraphs...)
	}
	return out
}

// Resolve returns the paragraph a ref points at, or false when the ref
// does not exist in this document.
func (d *ExtractedDocument) Resolve(ref ParagraphRef) (Paragraph, bool) {
	if ref.DocumentID != d.ID {
		return Paragraph{}, false
	}
	for _, page := range d.Pages {
		if page.Number != ref.PageNumber {
			continue
		}
		for _, para := range page.Paragraphs {
			if para.Index == ref.Index {
				return para, true
			}
		}
	}
	return Paragraph{}, false
}

// ParagraphCount returns the total number of paragraphs in the document.
func (d *ExtractedDocument) ParagraphCount() int {
	n := 0
	for _, page := range d.Pages {
		n += len(page.Paragraphs)
	}
	return n
}

// NormaliseWhitespace collapses all whitespace runs to single spaces and
// trims the ends. Paragraph text is normalised exactly once, at ingestion;
// fragment matching relies on both sides using the same normalisation.
func NormaliseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
