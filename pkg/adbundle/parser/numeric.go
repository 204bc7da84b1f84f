package parser

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal coerces a cell value to a number. Anything that is not numeric
// (text such as "N/A", dates, booleans, empty cells) becomes 0, and so does
// a number whose exponent is beyond MaxExponent.
func ToDecimal(v interface{}) decimal.Decimal {
	d := toDecimal(v)
	if !inExponentRange(d) {
		return decimal.Zero
	}
	return d
}

func toDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case int64:
		return decimal.NewFromInt(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case decimal.Decimal:
		return x
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
