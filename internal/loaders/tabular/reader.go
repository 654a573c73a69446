// Package tabular reads CSV, TSV and XLSX files into generic tables with
// normalised column headers. The KPI schema and annotation loaders are
// built on top of it.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// metadataSheets are sheet names skipped when locating the data sheet in a
// workbook.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

var columnNameRe = regexp.MustCompile(`[^A-Z0-9]+`)

// ReadFile reads a tabular file into a Table, routing by extension.
// The first row is taken as the header and normalised.
func ReadFile(path string) (*domain.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, content)
}

// Parse parses tabular content, routing by the file name's extension.
func Parse(filename string, content []byte) (*domain.Table, error) {
	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(content, ',')
	case strings.HasSuffix(lower, ".tsv"):
		return parseCSV(content, '\t')
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return parseExcel(content)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .csv, .tsv, .xlsx, .xls)", domain.ErrUnsupportedFileType, filename)
	}
}

// parseCSV parses CSV or TSV content.
func parseCSV(content []byte, comma rune) (*domain.Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	return buildTable(allRows[0], allRows[1:]), nil
}

// parseExcel parses the first data sheet of a workbook.
func parseExcel(content []byte) (*domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrInvalidInput)
	}

	// Skip metadata sheets; if every sheet looks like metadata, the last
	// one is the most likely data sheet.
	sheetName := ""
	for _, sheet := range sheets {
		if !metadataSheets[strings.ToLower(sheet)] {
			sheetName = sheet
			break
		}
	}
	if sheetName == "" {
		sheetName = sheets[len(sheets)-1]
	}

	allRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheetName, err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", domain.ErrInvalidInput, sheetName)
	}

	return buildTable(allRows[0], allRows[1:]), nil
}

// buildTable normalises headers and pads or trims rows to the header width.
func buildTable(header []string, rows [][]string) *domain.Table {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = NormaliseColumnName(h)
	}

	for i, row := range rows {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > len(headers) {
			rows[i] = row[:len(headers)]
		}
	}

	return &domain.Table{Headers: headers, Rows: rows}
}

// NormaliseColumnName standardises a column name: trimmed, uppercased,
// with every run of non-alphanumerics collapsed to a single underscore.
func NormaliseColumnName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = columnNameRe.ReplaceAllString(n, "_")
	return strings.Trim(n, "_")
}
