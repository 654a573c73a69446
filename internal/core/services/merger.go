package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
)

// Ensure Merger implements the interface.
var _ driving.Merger = (*Merger)(nil)

// matchTypeColumn marks which extraction pipeline produced a row.
const matchTypeColumn = "MATCH_TYPE"

// matchTypeTextBased backfills rows from the text-based pipeline, which
// does not emit a match type of its own.
const matchTypeTextBased = "TB"

// tbToRB maps text-based output columns onto their rule-based equivalents
// so the two formats line up after merging.
var tbToRB = map[string]string{
	"PDF_NAME":         "SRC_FILE",
	"PREDICTED_ANSWER": "VALUE",
	"PAGE":             "PAGE_NUM",
}

// priorityColumns appear first in the merged output, in this order.
// Columns absent from both inputs are skipped.
var priorityColumns = []string{"KPI_ID", "SRC_FILE", "VALUE", "SCORE", "PAGE_NUM", matchTypeColumn}

// Merger combines a rule-based and a text-based curated output into one
// table with a standardised header.
type Merger struct{}

// NewMerger creates a new output merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge standardises both tables' headers, concatenates their rows over
// the union of columns, orders priority columns first, and backfills the
// match-type column with "TB" where empty.
func (m *Merger) Merge(_ context.Context, first, second *domain.Table, opts driving.MergeOptions) (*domain.Table, error) {
	if first == nil || second == nil {
		return nil, fmt.Errorf("%w: both input tables are required", domain.ErrInvalidInput)
	}

	a := standardiseHeader(first)
	b := standardiseHeader(second)

	// Union of columns: first table's order, then the second's new ones.
	var columns []string
	seen := make(map[string]bool)
	for _, h := range append(append([]string{}, a.Headers...), b.Headers...) {
		if !seen[h] {
			seen[h] = true
			columns = append(columns, h)
		}
	}
	columns = orderWithPriority(columns)

	merged := &domain.Table{Headers: columns}
	appendRows(merged, a)
	appendRows(merged, b)

	backfillMatchType(merged)

	if opts.DropDuplicates {
		merged.Rows = dropDuplicateRows(merged.Rows)
	}

	return merged, nil
}

// standardiseHeader uppercases headers and renames text-based columns to
// their rule-based names. Cell data is shared, not copied.
func standardiseHeader(t *domain.Table) *domain.Table {
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		h = strings.ToUpper(strings.TrimSpace(h))
		if mapped, ok := tbToRB[h]; ok {
			h = mapped
		}
		headers[i] = h
	}
	return &domain.Table{Headers: headers, Rows: t.Rows}
}

// orderWithPriority moves the priority columns that exist to the front,
// keeping the remaining columns in their original order.
func orderWithPriority(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var ordered []string
	prioritised := make(map[string]bool)
	for _, c := range priorityColumns {
		if present[c] {
			ordered = append(ordered, c)
			prioritised[c] = true
		}
	}
	for _, c := range columns {
		if !prioritised[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// appendRows projects src's rows onto dst's column order, filling missing
// columns with empty strings.
func appendRows(dst *domain.Table, src *domain.Table) {
	srcIndex := make(map[string]int, len(src.Headers))
	for i, h := range src.Headers {
		srcIndex[h] = i
	}

	for _, row := range src.Rows {
		out := make([]string, len(dst.Headers))
		for i, col := range dst.Headers {
			if j, ok := srcIndex[col]; ok && j < len(row) {
				out[i] = row[j]
			}
		}
		dst.Rows = append(dst.Rows, out)
	}
}

// backfillMatchType fills empty match-type cells with the text-based
// marker. Rule-based rows always carry their own match type.
func backfillMatchType(t *domain.Table) {
	i := t.ColumnIndex(matchTypeColumn)
	if i < 0 {
		return
	}
	for _, row := range t.Rows {
		if i < len(row) && strings.TrimSpace(row[i]) == "" {
			row[i] = matchTypeTextBased
		}
	}
}

// dropDuplicateRows removes exact duplicates, keeping first occurrences.
func dropDuplicateRows(rows [][]string) [][]string {
	seen := make(map[string]bool, len(rows))
	var out [][]string
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}
