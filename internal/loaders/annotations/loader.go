// Package annotations loads the human annotation set from a tabular file.
//
// Individual malformed rows are skipped with a diagnostic; a file that
// cannot be parsed at all, or lacks the required columns, is fatal.
package annotations

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/loaders/tabular"
)

const (
	colCompany      = "COMPANY"
	colSourceFile   = "SOURCE_FILE"
	colSourcePage   = "SOURCE_PAGE"
	colKPIID        = "KPI_ID"
	colYear         = "YEAR"
	colAnswer       = "ANSWER"
	colDataType     = "DATA_TYPE"
	colRelevantPara = "RELEVANT_PARAGRAPHS"
	colAnnotator    = "ANNOTATOR"
	colSector       = "SECTOR"
)

// requiredColumns must be present in the header; their cells may still be
// empty on individual rows.
var requiredColumns = []string{colSourceFile, colSourcePage, colKPIID, colAnswer}

// quotedFragmentRe extracts single- or double-quoted items from a
// bracketed fragment list as annotators export it.
var quotedFragmentRe = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"`)

// Load reads an annotation set file (.csv, .tsv or .xlsx).
// Row-level problems are reported through the collector and the row is
// skipped; the returned error is reserved for file-level failures.
func Load(path string, diags *domain.DiagnosticsCollector) ([]domain.Annotation, error) {
	table, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnnotationParse, err)
	}
	return FromTable(table, diags)
}

// FromTable builds annotations from an already-parsed table.
func FromTable(table *domain.Table, diags *domain.DiagnosticsCollector) ([]domain.Annotation, error) {
	for _, required := range requiredColumns {
		if table.ColumnIndex(required) < 0 {
			return nil, fmt.Errorf("%w: missing column %s", domain.ErrAnnotationParse, required)
		}
	}

	var out []domain.Annotation
	for i, row := range table.Rows {
		rowID := i + 1

		ann := domain.Annotation{
			ID:         rowID,
			Company:    strings.TrimSpace(table.Cell(row, colCompany)),
			SourceFile: strings.TrimSpace(table.Cell(row, colSourceFile)),
			KPIID:      strings.TrimSpace(table.Cell(row, colKPIID)),
			Year:       strings.TrimSpace(table.Cell(row, colYear)),
			Answer:     strings.TrimSpace(table.Cell(row, colAnswer)),
			Annotator:  strings.TrimSpace(table.Cell(row, colAnnotator)),
			Sector:     strings.TrimSpace(table.Cell(row, colSector)),
			DataType:   strings.TrimSpace(table.Cell(row, colDataType)),
		}

		if ann.SourceFile == "" || ann.KPIID == "" {
			diags.Add(domain.Diagnostic{
				Kind:         domain.DiagMalformedRow,
				AnnotationID: rowID,
				Reason:       "source_file and kpi_id are required",
			})
			continue
		}

		pages, err := parsePages(table.Cell(row, colSourcePage))
		if err != nil {
			diags.Add(domain.Diagnostic{
				Kind:         domain.DiagMalformedRow,
				AnnotationID: rowID,
				DocumentID:   ann.SourceFile,
				Reason:       err.Error(),
			})
			continue
		}
		ann.SourcePages = pages
		ann.RelevantParagraphs = parseFragments(table.Cell(row, colRelevantPara))

		out = append(out, ann)
	}

	return out, nil
}

// parsePages parses the source_page cell, which may encode multiple pages:
// "7", "3, 4" or "[1, 2]".
func parsePages(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// parseFragments parses the relevant_paragraphs cell. Annotation exports
// hold either a bracketed list of quoted fragments or a single bare
// fragment; an empty cell means page-only alignment.
func parseFragments(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var fragments []string
		for _, m := range quotedFragmentRe.FindAllStringSubmatch(raw, -1) {
			frag := m[1]
			if frag == "" {
				frag = m[2]
			}
			frag = strings.ReplaceAll(frag, `\'`, `'`)
			frag = strings.ReplaceAll(frag, `\"`, `"`)
			if frag = strings.TrimSpace(frag); frag != "" {
				fragments = append(fragments, frag)
			}
		}
		return fragments
	}

	return []string{raw}
}
