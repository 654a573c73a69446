// Package structure loads extracted document structures from the JSON
// contract produced by the extraction step:
//
//	{"document_id": "...", "pages": [
//	  {"page_number": 1, "paragraphs": [
//	    {"paragraph_index": 0, "text": "..."}]}]}
//
// Paragraph text is whitespace-normalised here, once, at ingestion.
package structure

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// documentJSON mirrors the extraction output contract.
type documentJSON struct {
	DocumentID string     `json:"document_id"`
	SourceFile string     `json:"source_file,omitempty"`
	Pages      []pageJSON `json:"pages"`
}

type pageJSON struct {
	PageNumber int             `json:"page_number"`
	Paragraphs []paragraphJSON `json:"paragraphs"`
}

type paragraphJSON struct {
	ParagraphIndex int    `json:"paragraph_index"`
	Text           string `json:"text"`
}

// LoadFile reads one extraction JSON file.
func LoadFile(path string) (*domain.ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if raw.DocumentID == "" {
		return nil, fmt.Errorf("%w: %s has no document_id", domain.ErrInvalidInput, path)
	}

	return fromJSON(raw), nil
}

// LoadDir reads every .json file in a directory, sorted by file name.
func LoadDir(dir string) ([]*domain.ExtractedDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var docs []*domain.ExtractedDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// WriteFile serialises a document back to the extraction contract, for the
// extract command's output.
func WriteFile(path string, doc *domain.ExtractedDocument) error {
	raw := documentJSON{
		DocumentID: doc.ID,
		SourceFile: doc.SourceFile,
		Pages:      make([]pageJSON, 0, len(doc.Pages)),
	}
	for _, page := range doc.Pages {
		pj := pageJSON{PageNumber: page.Number, Paragraphs: make([]paragraphJSON, 0, len(page.Paragraphs))}
		for _, para := range page.Paragraphs {
			pj.Paragraphs = append(pj.Paragraphs, paragraphJSON{ParagraphIndex: para.Index, Text: para.Text})
		}
		raw.Pages = append(raw.Pages, pj)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc.ID, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// fromJSON converts the wire form to the domain form, normalising text and
// restoring the ordering invariants (pages ascending, paragraphs by index).
func fromJSON(raw documentJSON) *domain.ExtractedDocument {
	doc := &domain.ExtractedDocument{
		ID:         raw.DocumentID,
		SourceFile: raw.SourceFile,
	}

	sort.Slice(raw.Pages, func(i, j int) bool {
		return raw.Pages[i].PageNumber < raw.Pages[j].PageNumber
	})

	for _, pj := range raw.Pages {
		sort.Slice(pj.Paragraphs, func(i, j int) bool {
			return pj.Paragraphs[i].ParagraphIndex < pj.Paragraphs[j].ParagraphIndex
		})

		page := domain.Page{Number: pj.PageNumber}
		for _, para := range pj.Paragraphs {
			page.Paragraphs = append(page.Paragraphs, domain.Paragraph{
				DocumentID: raw.DocumentID,
				PageNumber: pj.PageNumber,
				Index:      para.ParagraphIndex,
				Text:       domain.NormaliseWhitespace(para.Text),
			})
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc
}
