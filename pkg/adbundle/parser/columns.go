package parser

import (
	"fmt"
	"strings"
)

// Canonical field names.
const (
	FieldAccount = "account"
	FieldCost    = "cost"
	FieldRevenue = "revenue"
	FieldVideoID = "video_id"
)

// FieldKeywords lists, per canonical field, the substrings a column name may
// contain, in priority order.
type FieldKeywords struct {
	Account []string `yaml:"account"`
	Cost    []string `yaml:"cost"`
	Revenue []string `yaml:"revenue"`
	VideoID []string `yaml:"video_id"`
}

// FieldBinding is the column each canonical field resolved to. VideoID is
// empty when no column matched it.
type FieldBinding struct {
	Account string
	Cost    string
	Revenue string
	VideoID string
}

// ResolutionError reports required fields that no column matched.
type ResolutionError struct {
	Sheet      string
	Unresolved []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("sheet %q: no column found for %s", e.Sheet, strings.Join(e.Unresolved, ", "))
}

// ResolveColumn returns the column bound to a field. Keywords are tried in
// order and, for each keyword, columns are scanned left to right; the first
// column whose trimmed name contains the keyword wins. Matching is an exact,
// case-sensitive substring test.
func ResolveColumn(columns []string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		for _, col := range columns {
			if strings.Contains(strings.TrimSpace(col), kw) {
				return col, true
			}
		}
	}
	return "", false
}

// ResolveFields binds every canonical field. Account, cost and revenue are
// required; a missing video column is not an error.
func ResolveFields(sheet string, columns []string, kw FieldKeywords) (FieldBinding, *ResolutionError) {
	var b FieldBinding
	var missing []string

	var ok bool
	if b.Account, ok = ResolveColumn(columns, kw.Account); !ok {
		missing = append(missing, FieldAccount)
	}
	if b.Cost, ok = ResolveColumn(columns, kw.Cost); !ok {
		missing = append(missing, FieldCost)
	}
	if b.Revenue, ok = ResolveColumn(columns, kw.Revenue); !ok {
		missing = append(missing, FieldRevenue)
	}
	b.VideoID, _ = ResolveColumn(columns, kw.VideoID)

	if len(missing) > 0 {
		return b, &ResolutionError{Sheet: sheet, Unresolved: missing}
	}
	return b, nil
}
