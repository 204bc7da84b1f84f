// Package output renders data bundles as JSON text.
//
// The encoder keeps every ordering decided upstream (sections, columns,
// summary rows), writes non-ASCII text literally and never uses exponent
// notation for numbers. Integers longer than parser.MaxNumericDigits are
// written as strings so JSON readers that decode numbers as float64 keep
// every digit.
package output

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/parser"
)

// Keys used for summary columns that do not come from the sheet.
const (
	VideoCountKey = "发布素材数量"
	ROASKey       = "ROAS"
)

// ToJSON serializes a bundle as one object keyed by section alias.
func ToJSON(b *models.Bundle, pretty bool) ([]byte, error) {
	e := &encoder{}
	e.buf.WriteByte('{')
	for i := range b.Sections {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.writeString(b.Sections[i].Alias)
		e.buf.WriteByte(':')
		e.writeSection(&b.Sections[i])
	}
	e.buf.WriteByte('}')
	return e.finish(pretty)
}

// SectionToJSON serializes the content of a single section.
func SectionToJSON(sec *models.Section, pretty bool) ([]byte, error) {
	e := &encoder{}
	e.writeSection(sec)
	return e.finish(pretty)
}

type encoder struct {
	buf bytes.Buffer
	err error
}

func (e *encoder) finish(pretty bool) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if !pretty {
		return e.buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, e.buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (e *encoder) writeSection(sec *models.Section) {
	switch {
	case sec.Error != nil:
		e.writeError(sec.Error)
	case sec.Summary != nil:
		e.writeSummary(sec.Summary)
	case sec.Table != nil:
		e.writeTable(sec.Table)
	default:
		e.buf.WriteString("null")
	}
}

func (e *encoder) writeTable(t *models.Table) {
	e.buf.WriteByte('[')
	for i, rec := range t.Records {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteByte('{')
		for c, col := range t.Columns {
			if c > 0 {
				e.buf.WriteByte(',')
			}
			e.writeString(col)
			e.buf.WriteByte(':')
			e.writeValue(rec.Value(c))
		}
		e.buf.WriteByte('}')
	}
	e.buf.WriteByte(']')
}

func (e *encoder) writeSummary(s *models.SummaryTable) {
	e.buf.WriteByte('[')
	for i, row := range s.Rows {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteByte('{')
		e.writeString(s.AccountColumn)
		e.buf.WriteByte(':')
		e.writeString(row.Account)
		e.buf.WriteByte(',')
		e.writeString(s.CostColumn)
		e.buf.WriteByte(':')
		e.writeDecimal(row.Cost)
		e.buf.WriteByte(',')
		e.writeString(s.RevenueColumn)
		e.buf.WriteByte(':')
		e.writeDecimal(row.Revenue)
		if row.Videos != nil {
			e.buf.WriteByte(',')
			e.writeString(VideoCountKey)
			e.buf.WriteByte(':')
			e.buf.WriteString(strconv.Itoa(*row.Videos))
		}
		e.buf.WriteByte(',')
		e.writeString(ROASKey)
		e.buf.WriteByte(':')
		e.writeDecimal(row.ROAS)
		e.buf.WriteByte('}')
	}
	e.buf.WriteByte(']')
}

func (e *encoder) writeError(se *models.SectionError) {
	e.buf.WriteByte('{')
	e.writeString("error")
	e.buf.WriteByte(':')
	e.writeString(se.Message)
	if len(se.Unresolved) > 0 {
		e.buf.WriteString(`,"unresolved":[`)
		for i, f := range se.Unresolved {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.writeString(f)
		}
		e.buf.WriteByte(']')
	}
	e.buf.WriteByte('}')
}

func (e *encoder) writeValue(v interface{}) {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case string:
		e.writeString(x)
	case int64:
		e.writeInteger(strconv.FormatInt(x, 10))
	case int:
		e.writeInteger(strconv.Itoa(x))
	case decimal.Decimal:
		e.writeDecimal(x)
	case float64:
		e.writeValue(parser.ToDecimal(x))
	case bool:
		e.buf.WriteString(strconv.FormatBool(x))
	case time.Time:
		e.writeString(models.FormatTime(x))
	default:
		e.writeString(models.FormatValue(x))
	}
}

func (e *encoder) writeDecimal(d decimal.Decimal) {
	if d.IsInteger() {
		e.writeInteger(d.String())
		return
	}
	e.buf.WriteString(d.String())
}

// writeInteger writes digits as a number, or as a string past the float64
// exact range.
func (e *encoder) writeInteger(digits string) {
	n := 0
	for i := 0; i < len(digits); i++ {
		if digits[i] >= '0' && digits[i] <= '9' {
			n++
		}
	}
	if n > parser.MaxNumericDigits {
		e.writeString(digits)
		return
	}
	e.buf.WriteString(digits)
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		e.err = err
		return
	}
	// Encode terminates each value with a newline
	e.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}
