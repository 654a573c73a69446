package domain

// Table is a generic tabular input: normalised column headers plus string
// rows, as read from CSV/TSV/XLSX files. Rows are padded or trimmed to the
// header width at ingestion.
type Table struct {
	// Headers holds the normalised column names.
	Headers []string

	// Rows holds the data rows, one string per column.
	Rows [][]string
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name), or "" when the column is
// absent.
func (t *Table) Cell(row []string, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
