package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
)

func ruleBasedTable() *domain.Table {
	return &domain.Table{
		Headers: []string{"KPI_ID", "SRC_FILE", "VALUE", "SCORE", "PAGE_NUM", "MATCH_TYPE", "UNIT"},
		Rows: [][]string{
			{"K1", "acme-2023.pdf", "42", "0.9", "3", "RB", "MEUR"},
		},
	}
}

func textBasedTable() *domain.Table {
	return &domain.Table{
		Headers: []string{"KPI_ID", "PDF_NAME", "PREDICTED_ANSWER", "PAGE", "PARAGRAPH"},
		Rows: [][]string{
			{"K2", "acme-2023.pdf", "12 ktCO2e", "5", "Scope 1 emissions were 12 ktCO2e"},
		},
	}
}

func TestMerger_MapsTextBasedColumns(t *testing.T) {
	merged, err := NewMerger().Merge(context.Background(), ruleBasedTable(), textBasedTable(), driving.MergeOptions{})
	require.NoError(t, err)

	// Text-based names were mapped onto the rule-based ones.
	assert.Equal(t, -1, merged.ColumnIndex("PDF_NAME"))
	assert.Equal(t, -1, merged.ColumnIndex("PREDICTED_ANSWER"))
	assert.Equal(t, -1, merged.ColumnIndex("PAGE"))

	require.Len(t, merged.Rows, 2)
	tbRow := merged.Rows[1]
	assert.Equal(t, "acme-2023.pdf", merged.Cell(tbRow, "SRC_FILE"))
	assert.Equal(t, "12 ktCO2e", merged.Cell(tbRow, "VALUE"))
	assert.Equal(t, "5", merged.Cell(tbRow, "PAGE_NUM"))
}

func TestMerger_PriorityColumnsComeFirst(t *testing.T) {
	merged, err := NewMerger().Merge(context.Background(), ruleBasedTable(), textBasedTable(), driving.MergeOptions{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"KPI_ID", "SRC_FILE", "VALUE", "SCORE", "PAGE_NUM", "MATCH_TYPE", "UNIT", "PARAGRAPH"},
		merged.Headers)
}

func TestMerger_BackfillsMatchType(t *testing.T) {
	merged, err := NewMerger().Merge(context.Background(), ruleBasedTable(), textBasedTable(), driving.MergeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "RB", merged.Cell(merged.Rows[0], "MATCH_TYPE"))
	assert.Equal(t, "TB", merged.Cell(merged.Rows[1], "MATCH_TYPE"))
}

func TestMerger_FillsMissingColumnsEmpty(t *testing.T) {
	merged, err := NewMerger().Merge(context.Background(), ruleBasedTable(), textBasedTable(), driving.MergeOptions{})
	require.NoError(t, err)

	// The text-based input has no SCORE or UNIT.
	assert.Equal(t, "", merged.Cell(merged.Rows[1], "SCORE"))
	assert.Equal(t, "", merged.Cell(merged.Rows[1], "UNIT"))
	// The rule-based input has no PARAGRAPH.
	assert.Equal(t, "", merged.Cell(merged.Rows[0], "PARAGRAPH"))
}

func TestMerger_LowercaseHeadersAreStandardised(t *testing.T) {
	first := &domain.Table{
		Headers: []string{"kpi_id", "src_file", "value"},
		Rows:    [][]string{{"K1", "a.pdf", "1"}},
	}
	second := &domain.Table{
		Headers: []string{"kpi_id", "pdf_name", "predicted_answer"},
		Rows:    [][]string{{"K2", "b.pdf", "2"}},
	}

	merged, err := NewMerger().Merge(context.Background(), first, second, driving.MergeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"KPI_ID", "SRC_FILE", "VALUE"}, merged.Headers)
}

func TestMerger_DropDuplicates(t *testing.T) {
	table := &domain.Table{
		Headers: []string{"KPI_ID", "SRC_FILE", "VALUE"},
		Rows: [][]string{
			{"K1", "a.pdf", "1"},
			{"K1", "a.pdf", "1"},
		},
	}

	kept, err := NewMerger().Merge(context.Background(), table, table, driving.MergeOptions{DropDuplicates: true})
	require.NoError(t, err)
	assert.Len(t, kept.Rows, 1)

	all, err := NewMerger().Merge(context.Background(), table, table, driving.MergeOptions{})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 4)
}

func TestMerger_NilInput(t *testing.T) {
	_, err := NewMerger().Merge(context.Background(), nil, textBasedTable(), driving.MergeOptions{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
