package models

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout and DateTimeLayout are the text forms of date cells.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

// FormatValue returns the text form of a cell value. Numbers are written in
// full decimal form and dates in ISO-8601. Nil becomes the empty string.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case decimal.Decimal:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return decimal.NewFromFloat(x).String()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatTime(x)
	default:
		return ""
	}
}

// FormatTime renders whole days as a date and anything else as RFC 3339.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}
