package parser

import "testing"

func TestMatchSheet(t *testing.T) {
	markers := []SheetMarker{
		{Marker: "分时段数据", Alias: "分时段表现"},
		{Marker: "商品-gmv max", Alias: "商品GMV明细"},
		{Marker: "gmv max", Alias: "其他GMV"},
		{Marker: "素材-gmv max", Alias: "素材GMV明细", Creative: true},
	}

	tests := []struct {
		sheet    string
		alias    string
		expected bool
	}{
		{" 分时段数据 ", "分时段表现", true},
		{"1月商品-gmv max", "商品GMV明细", true},
		// Two markers fit; the one declared first wins
		{"素材-gmv max", "其他GMV", true},
		{"Sheet1", "", false},
		{"商品-GMV MAX", "", false},
	}

	for _, tt := range tests {
		m, ok := MatchSheet(tt.sheet, markers)
		if ok != tt.expected || m.Alias != tt.alias {
			t.Errorf("MatchSheet(%q) = (%q, %v), expected (%q, %v)", tt.sheet, m.Alias, ok, tt.alias, tt.expected)
		}
	}
}
