// Package parser reads GMV MAX report sheets and summarizes them per account.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
	"github.com/xuri/excelize/v2"
)

// MaxNumericDigits is the longest integer kept as a number. Longer integers
// are identifiers (video and product IDs) and are kept as their digit string.
const MaxNumericDigits = 15

// MaxExponent bounds the decimal exponent of a numeric value. Values written
// with a larger exponent, such as "1e999999999", are not treated as numbers.
const MaxExponent = 30

// ExtractTable reads a sheet into a header row and data records.
// Cell values are read raw so number formats cannot truncate identifiers.
// Only numeric cells are typed; text cells are kept exactly as stored.
func ExtractTable(f *excelize.File, sheetName string, params TableDetectionParams) (*models.Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	table := &models.Table{SheetName: sheetName}
	layout, ok := DetectLayout(rows, params)
	if !ok {
		return table, nil
	}

	table.HeaderRow = layout.HeaderRow + 1
	table.Columns = headerNames(rows[layout.HeaderRow], layout.FirstCol, layout.LastCol)

	cells := newCellReader(f)
	for rowIdx := layout.HeaderRow + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		rowNum := rowIdx + 1 // 1-based row index
		values := make([]interface{}, len(table.Columns))
		hasData := false

		for colIdx := layout.FirstCol; colIdx <= layout.LastCol && colIdx < len(row); colIdx++ {
			cellValue := row[colIdx]
			if cellValue == "" {
				continue
			}
			hasData = true

			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			values[colIdx-layout.FirstCol] = cells.parseCell(sheetName, cellName, cellValue)
		}

		if hasData {
			table.Records = append(table.Records, models.Record{R: rowNum, Values: values})
		}
	}

	return table, nil
}

// headerNames builds unique column names from a header row.
// Blank headers become "Unnamed: N" and repeats get ".1", ".2" suffixes,
// skipping any suffixed name that is already taken.
func headerNames(row []string, firstCol, lastCol int) []string {
	names := make([]string, 0, lastCol-firstCol+1)
	used := make(map[string]bool)
	suffix := make(map[string]int)
	for colIdx := firstCol; colIdx <= lastCol; colIdx++ {
		name := ""
		if colIdx < len(row) {
			name = row[colIdx]
		}
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", colIdx-firstCol)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}

// parseValue converts the raw value of a numeric cell into a typed value.
// Returns int64 for integers, decimal.Decimal for fractions, a string for
// text, for integers longer than MaxNumericDigits and for exponents beyond
// MaxExponent, or nil for "".
func parseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	// Keep zero-padded codes such as "007" as text
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if digitCount(s) > MaxNumericDigits {
			return s
		}
		return i
	}
	// Try decimal, which also accepts exponent forms such as 1.23E+13
	if d, err := decimal.NewFromString(s); err == nil {
		if !inExponentRange(d) {
			return s
		}
		if d.IsInteger() {
			text := d.String()
			if digitCount(text) > MaxNumericDigits {
				return text
			}
			return d.IntPart()
		}
		return d
	}
	// Return as string
	return s
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// inExponentRange reports whether d can be rescaled to an integer or summed
// without building an oversized number.
func inExponentRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxExponent && exp <= MaxExponent
}

// cellReader types raw cell values by stored cell type and remembers which
// cell styles carry a date number format.
type cellReader struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool
}

func newCellReader(f *excelize.File) *cellReader {
	cr := &cellReader{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr
}

// parseCell types a raw cell. Shared strings, inline strings, formula text,
// error values and ISO date text pass through unchanged.
func (cr *cellReader) parseCell(sheetName, cellName, raw string) interface{} {
	cellType, err := cr.f.GetCellType(sheetName, cellName)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return cr.parseNumber(sheetName, cellName, raw)
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	default:
		return raw
	}
}

// parseNumber types a numeric cell, converting date serials to time.Time.
func (cr *cellReader) parseNumber(sheetName, cellName, raw string) interface{} {
	v := parseValue(raw)
	switch v.(type) {
	case int64, decimal.Decimal:
	default:
		return v
	}
	if !cr.isDate(sheetName, cellName) {
		return v
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, cr.date1904)
	if err != nil {
		return v
	}
	return t.Round(time.Second)
}

func (cr *cellReader) isDate(sheetName, cellName string) bool {
	styleID, err := cr.f.GetCellStyle(sheetName, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := cr.styles[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := cr.f.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	cr.styles[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in or custom number format renders a
// date or time.
func isDateNumFmt(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22:
		return true
	case numFmt >= 27 && numFmt <= 36:
		return true
	case numFmt >= 45 && numFmt <= 47:
		return true
	case numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date tokens outside quoted literals and
// bracketed sections of a format code.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\':
			i++
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			switch c {
			case 'y', 'Y', 'd', 'D', 'h', 'H', 's', 'S', 'm', 'M':
				return true
			}
		}
	}
	return false
}
