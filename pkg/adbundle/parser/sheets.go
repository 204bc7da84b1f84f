package parser

import "strings"

// SheetMarker maps a sheet-name substring to the alias its data is stored
// under in the bundle.
type SheetMarker struct {
	Marker string `yaml:"marker"`
	Alias  string `yaml:"alias"`
	// Creative marks the row-level creative sheet that feeds the account
	// aggregation.
	Creative bool `yaml:"creative,omitempty"`
}

// MatchSheet returns the first marker, in declaration order, contained in
// the trimmed sheet name. A sheet matches at most one marker.
func MatchSheet(sheetName string, markers []SheetMarker) (SheetMarker, bool) {
	clean := strings.TrimSpace(sheetName)
	for _, m := range markers {
		if m.Marker == "" {
			continue
		}
		if strings.Contains(clean, m.Marker) {
			return m, true
		}
	}
	return SheetMarker{}, false
}
