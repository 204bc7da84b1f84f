package parser

// TableDetectionParams holds parameters for locating the header row.
type TableDetectionParams struct {
	// MinHeaderCells is the number of non-empty cells a row needs to be taken
	// as the header. Title rows above the table usually have a single cell.
	MinHeaderCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		MinHeaderCells: 2,
	}
}

// Layout is the detected position of a table inside a sheet (0-based).
type Layout struct {
	HeaderRow int
	FirstCol  int
	LastCol   int
}

// DetectLayout finds the header row and the column span of the table.
// The header is the first row with at least MinHeaderCells non-empty cells,
// falling back to the first non-empty row.
func DetectLayout(rows [][]string, params TableDetectionParams) (Layout, bool) {
	if len(rows) == 0 {
		return Layout{}, false
	}

	// Find the bounding box of non-empty cells
	minRow, _, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return Layout{}, false
	}

	header := minRow
	for rowIdx := minRow; rowIdx < len(rows); rowIdx++ {
		if countNonEmptyCells(rows, rowIdx, rowIdx, minCol, maxCol) >= params.MinHeaderCells {
			header = rowIdx
			break
		}
	}

	// Columns left of the header's first cell are outside the table
	first := minCol
	for colIdx := minCol; colIdx <= maxCol && colIdx < len(rows[header]); colIdx++ {
		if rows[header][colIdx] != "" {
			first = colIdx
			break
		}
	}

	return Layout{HeaderRow: header, FirstCol: first, LastCol: maxCol}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
