package parser

import "testing"

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected Layout
		found    bool
	}{
		{"empty", nil, Layout{}, false},
		{"blank rows only", [][]string{{""}, {"", ""}}, Layout{}, false},
		{"header on first row", [][]string{{"a", "b"}, {"1", "2"}}, Layout{HeaderRow: 0, FirstCol: 0, LastCol: 1}, true},
		{"title row skipped", [][]string{{"报告"}, {}, {"a", "b", "c"}, {"1"}}, Layout{HeaderRow: 2, FirstCol: 0, LastCol: 2}, true},
		{"offset table", [][]string{{}, {"", "a", "b"}, {"", "1", "2"}}, Layout{HeaderRow: 1, FirstCol: 1, LastCol: 2}, true},
		{"single column falls back", [][]string{{"a"}, {"1"}}, Layout{HeaderRow: 0, FirstCol: 0, LastCol: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, ok := DetectLayout(tt.rows, DefaultTableParams())
			if ok != tt.found || layout != tt.expected {
				t.Errorf("DetectLayout = (%+v, %v), expected (%+v, %v)", layout, ok, tt.expected, tt.found)
			}
		})
	}
}
