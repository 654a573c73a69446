// Package csvfile writes curated datasets as CSV files.
//
// Writes are atomic: rows are serialised to a temporary file in the
// destination directory and renamed into place only after a successful
// flush, so a failed run never leaves a truncated dataset behind.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driven"
)

// DefaultFileName is the dataset file written when no name is configured.
const DefaultFileName = "curated_dataset.csv"

// columns is the fixed output schema, in order.
var columns = []string{
	"COMPANY",
	"SOURCE_FILE",
	"PAGE_NUM",
	"PARAGRAPH_INDEX",
	"KPI_ID",
	"QUESTION",
	"YEAR",
	"ANSWER",
	"PARAGRAPH",
	"LABEL",
	"MATCH_TYPE",
	"ANNOTATOR",
	"SECTOR",
	"DATA_TYPE",
}

// Ensure Writer implements the interface.
var _ driven.DatasetWriter = (*Writer)(nil)

// Writer writes dataset rows to a CSV file in a destination directory.
type Writer struct {
	fileName string
}

// NewWriter creates a dataset writer. An empty fileName selects
// DefaultFileName.
func NewWriter(fileName string) *Writer {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Writer{fileName: fileName}
}

// Write orders the rows deterministically, drops exact duplicates, and
// writes the result atomically into destDir. It returns the final file path
// and the number of data rows written.
func (w *Writer) Write(ctx context.Context, destDir string, rows []domain.DatasetRow) (string, int, error) {
	if destDir == "" {
		return "", 0, fmt.Errorf("destination directory: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", 0, fmt.Errorf("creating destination directory: %w", err)
	}

	ordered := orderRows(rows)
	ordered = dropExactDuplicates(ordered)

	finalPath := filepath.Join(destDir, w.fileName)

	tmp, err := os.CreateTemp(destDir, "."+w.fileName+".tmp-*")
	if err != nil {
		return "", 0, fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	// Remove the temp file on any failure path; a no-op after rename.
	defer os.Remove(tmpPath)

	cw := csv.NewWriter(tmp)
	if err := cw.Write(columns); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("writing header: %w", err)
	}

	for _, row := range ordered {
		if err := ctx.Err(); err != nil {
			tmp.Close()
			return "", 0, err
		}
		if err := cw.Write(record(row)); err != nil {
			tmp.Close()
			return "", 0, fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("flushing rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", 0, fmt.Errorf("renaming into place: %w", err)
	}

	return finalPath, len(ordered), nil
}

// WriteTable writes a generic table to path atomically. Used for merge
// output, which carries caller-defined columns rather than the dataset
// schema.
func WriteTable(path string, table *domain.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	cw := csv.NewWriter(tmp)
	if err := cw.Write(table.Headers); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// orderRows sorts rows by paragraph position, then KPI, then label. The
// ordering makes repeated runs over the same inputs byte-identical.
func orderRows(rows []domain.DatasetRow) []domain.DatasetRow {
	ordered := make([]domain.DatasetRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		if a.PageNumber != b.PageNumber {
			return a.PageNumber < b.PageNumber
		}
		if a.ParagraphIndex != b.ParagraphIndex {
			return a.ParagraphIndex < b.ParagraphIndex
		}
		if a.KPIID != b.KPIID {
			return a.KPIID < b.KPIID
		}
		return a.Label > b.Label // positives before negatives
	})
	return ordered
}

// dropExactDuplicates removes rows identical in every column, keeping the
// first occurrence.
func dropExactDuplicates(rows []domain.DatasetRow) []domain.DatasetRow {
	seen := make(map[domain.DatasetRow]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}
	return out
}

func record(row domain.DatasetRow) []string {
	return []string{
		row.Company,
		row.SourceFile,
		strconv.Itoa(row.PageNumber),
		strconv.Itoa(row.ParagraphIndex),
		row.KPIID,
		row.Question,
		row.Year,
		row.Answer,
		row.Paragraph,
		strconv.Itoa(int(row.Label)),
		string(row.Match),
		row.Annotator,
		row.Sector,
		row.DataType,
	}
}
