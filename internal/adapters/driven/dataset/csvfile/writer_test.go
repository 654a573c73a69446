package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

func testRows() []domain.DatasetRow {
	return []domain.DatasetRow{
		{
			Company:        "Acme Corp",
			SourceFile:     "acme-2023.pdf",
			PageNumber:     3,
			ParagraphIndex: 1,
			KPIID:          "K2",
			Question:       "What were the operating costs?",
			Year:           "2023",
			Paragraph:      "Operating costs remained flat",
			Label:          domain.LabelPositive,
			Match:          domain.MatchFragment,
		},
		{
			Company:        "Acme Corp",
			SourceFile:     "acme-2023.pdf",
			PageNumber:     1,
			ParagraphIndex: 0,
			KPIID:          "K1",
			Question:       "What was the revenue?",
			Year:           "2023",
			Answer:         "5% increase",
			Paragraph:      "Revenue increased by 5% YoY",
			Label:          domain.LabelPositive,
			Match:          domain.MatchFragment,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter("")

	path, written, err := w.Write(context.Background(), dir, testRows())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), path)
	assert.Equal(t, 2, written)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	// Rows come back sorted by paragraph position, not input order.
	assert.Equal(t, "K1", records[1][4])
	assert.Equal(t, "K2", records[2][4])
	assert.Equal(t, "1", records[1][9]) // LABEL
}

func TestWriter_SortIsDeterministic(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	w := NewWriter("")
	ctx := context.Background()

	rows := testRows()
	reversed := []domain.DatasetRow{rows[1], rows[0]}

	p1, _, err := w.Write(ctx, dir1, rows)
	require.NoError(t, err)
	p2, _, err := w.Write(ctx, dir2, reversed)
	require.NoError(t, err)

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestWriter_DropsExactDuplicates(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter("")

	rows := testRows()
	rows = append(rows, rows[0])

	_, written, err := w.Write(context.Background(), dir, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
}

func TestWriter_EmptyDestination(t *testing.T) {
	w := NewWriter("")

	_, _, err := w.Write(context.Background(), "", testRows())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestWriter_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter("custom.csv")

	_, _, err := w.Write(context.Background(), dir, testRows())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "custom.csv", entries[0].Name())
}

func TestWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.csv")
	table := &domain.Table{
		Headers: []string{"KPI_ID", "SRC_FILE", "VALUE"},
		Rows: [][]string{
			{"K1", "acme-2023.pdf", "5% increase"},
		},
	}

	require.NoError(t, WriteTable(path, table))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, table.Headers, records[0])
	assert.Equal(t, table.Rows[0], records[1])
}
