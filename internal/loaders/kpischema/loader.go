// Package kpischema loads the KPI schema from a tabular file.
package kpischema

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/loaders/tabular"
)

// Expected columns. KPI_ID and QUESTION are required; the rest default to
// empty.
const (
	colKPIID    = "KPI_ID"
	colQuestion = "QUESTION"
	colSectors  = "SECTORS"
	colAddYear  = "ADD_YEAR"
	colCategory = "KPI_CATEGORY"
)

// Load reads a KPI schema file (.csv, .tsv or .xlsx).
// Any failure is fatal for the run: a curation without a complete schema
// would silently misclassify annotations.
func Load(path string) (*domain.KPISchema, error) {
	table, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaParse, err)
	}
	return FromTable(table)
}

// FromTable builds a schema from an already-parsed table.
func FromTable(table *domain.Table) (*domain.KPISchema, error) {
	for _, required := range []string{colKPIID, colQuestion} {
		if table.ColumnIndex(required) < 0 {
			return nil, fmt.Errorf("%w: missing column %s", domain.ErrSchemaParse, required)
		}
	}

	var defs []domain.KPIDefinition
	for i, row := range table.Rows {
		id := strings.TrimSpace(table.Cell(row, colKPIID))
		if id == "" {
			return nil, fmt.Errorf("%w: row %d has an empty KPI id", domain.ErrSchemaParse, i+1)
		}

		defs = append(defs, domain.KPIDefinition{
			ID:       id,
			Question: strings.TrimSpace(table.Cell(row, colQuestion)),
			Sectors:  parseSectors(table.Cell(row, colSectors)),
			AddYear:  parseBool(table.Cell(row, colAddYear)),
			Category: strings.TrimSpace(table.Cell(row, colCategory)),
		})
	}

	schema, err := domain.NewKPISchema(defs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaParse, err)
	}
	return schema, nil
}

// parseSectors splits a comma-separated sector list.
func parseSectors(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseBool accepts the spellings seen in schema spreadsheets.
func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "x":
		return true
	default:
		return false
	}
}
