// Package models defines data structures for workbook bundles.
package models

// Record is one data row of a sheet, aligned with its table's Columns.
type Record struct {
	// R is the row index in the sheet (1-based).
	R int `json:"r"`
	// Values holds one cell value per column. A value is nil (empty cell),
	// string, int64, decimal.Decimal, time.Time or bool.
	Values []interface{} `json:"values"`
}

// Value returns the value at column index i, or nil when the row is short.
func (r Record) Value(i int) interface{} {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// Table is a sheet read as one header row plus data records.
type Table struct {
	// SheetName is the sheet name as stored in the workbook.
	SheetName string `json:"sheet_name"`
	// HeaderRow is the sheet row (1-based) the column names were read from.
	HeaderRow int `json:"header_row"`
	// Columns are the header names in left-to-right order.
	Columns []string `json:"columns"`
	// Records are the data rows below the header.
	Records []Record `json:"records"`
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
