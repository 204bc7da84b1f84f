package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
)

func testBundle() *models.Bundle {
	videos := 2
	b := &models.Bundle{BookName: "report.xlsx"}
	b.Set(models.Section{Alias: "素材GMV明细", Table: &models.Table{
		SheetName: "素材-gmv max",
		Columns:   []string{"Video ID", "账号", "消耗", "日期", "备注"},
		Records: []models.Record{
			{R: 2, Values: []interface{}{"7301234567890123456", "小店<官方>", decimal.RequireFromString("12.5"), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), nil}},
			{R: 3, Values: []interface{}{int64(123456789012345), "A&B", int64(3), time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true}},
		},
	}})
	b.Set(models.Section{Alias: "[特别计算]各账号汇总数据", Summary: &models.SummaryTable{
		AccountColumn: "账号",
		CostColumn:    "消耗",
		RevenueColumn: "GMV",
		VideoColumn:   "Video ID",
		Rows: []models.AccountSummary{
			{Account: "小店<官方>", Cost: decimal.RequireFromString("12.5"), Revenue: decimal.RequireFromString("50"), Videos: &videos, ROAS: decimal.RequireFromString("4")},
		},
	}})
	return b
}

func TestToJSONLiteral(t *testing.T) {
	data, err := ToJSON(testBundle(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	expected := `{"素材GMV明细":[` +
		`{"Video ID":"7301234567890123456","账号":"小店<官方>","消耗":12.5,"日期":"2024-01-15","备注":null},` +
		`{"Video ID":123456789012345,"账号":"A&B","消耗":3,"日期":"2024-01-15T08:30:00Z","备注":true}],` +
		`"[特别计算]各账号汇总数据":[{"账号":"小店<官方>","消耗":12.5,"GMV":50,"发布素材数量":2,"ROAS":4}]}`
	if string(data) != expected {
		t.Errorf("ToJSON mismatch\n got: %s\nwant: %s", data, expected)
	}
}

func TestToJSONNoExponent(t *testing.T) {
	b := &models.Bundle{}
	b.Set(models.Section{Alias: "s", Table: &models.Table{
		Columns: []string{"big", "small", "id"},
		Records: []models.Record{{Values: []interface{}{
			decimal.RequireFromString("1.23E+13"),
			decimal.RequireFromString("1E-7"),
			decimal.RequireFromString("7.3012345678901202E+18"),
		}}},
	}})

	data, err := ToJSON(b, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if bytes.ContainsAny(data, "eE") {
		t.Errorf("Exponent notation in output: %s", data)
	}
	expected := `{"s":[{"big":12300000000000,"small":0.0000001,"id":"7301234567890120200"}]}`
	if string(data) != expected {
		t.Errorf("ToJSON mismatch\n got: %s\nwant: %s", data, expected)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		data, err := ToJSON(testBundle(), pretty)
		if err != nil {
			t.Fatalf("ToJSON(pretty=%v) failed: %v", pretty, err)
		}

		var decoded map[string][]map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			t.Fatalf("Decode(pretty=%v) failed: %v\n%s", pretty, err, data)
		}

		rows := decoded["素材GMV明细"]
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0]["Video ID"] != "7301234567890123456" {
			t.Errorf("Long ID changed: %v", rows[0]["Video ID"])
		}
		if rows[1]["Video ID"] != json.Number("123456789012345") {
			t.Errorf("15-digit ID changed: %v", rows[1]["Video ID"])
		}
		if rows[0]["账号"] != "小店<官方>" {
			t.Errorf("Non-ASCII text changed: %v", rows[0]["账号"])
		}

		// Decoding into float64 keeps the 15-digit id exact as well
		var plain map[string][]map[string]interface{}
		if err := json.Unmarshal(data, &plain); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if f, ok := plain["素材GMV明细"][1]["Video ID"].(float64); !ok || int64(f) != 123456789012345 {
			t.Errorf("float64 decode changed id: %v", plain["素材GMV明细"][1]["Video ID"])
		}
	}
}

func TestToJSONNoEscapes(t *testing.T) {
	data, err := ToJSON(testBundle(), true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(data), `\u`) {
		t.Errorf("Escaped characters in output: %s", data)
	}
	if !strings.Contains(string(data), "\n  \"素材GMV明细\": [") {
		t.Errorf("Expected indented output, got: %s", data)
	}
}

func TestToJSONErrorSection(t *testing.T) {
	b := &models.Bundle{}
	b.Set(models.Section{Alias: "商品GMV明细", Table: &models.Table{Columns: []string{"商品ID"}, Records: []models.Record{{Values: []interface{}{"p1"}}}}})
	b.Set(models.Section{Alias: "[特别计算]各账号汇总数据", Error: &models.SectionError{
		Message:    `sheet "素材-gmv max": no column found for cost`,
		Unresolved: []string{"cost"},
	}})

	data, err := ToJSON(b, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	expected := `{"商品GMV明细":[{"商品ID":"p1"}],` +
		`"[特别计算]各账号汇总数据":{"error":"sheet \"素材-gmv max\": no column found for cost","unresolved":["cost"]}}`
	if string(data) != expected {
		t.Errorf("ToJSON mismatch\n got: %s\nwant: %s", data, expected)
	}
}

func TestSectionToJSON(t *testing.T) {
	sec := &models.Section{Alias: "x", Table: &models.Table{Columns: []string{"a"}}}
	data, err := SectionToJSON(sec, false)
	if err != nil {
		t.Fatalf("SectionToJSON failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected [], got %s", data)
	}

	data, err = SectionToJSON(&models.Section{Alias: "empty"}, false)
	if err != nil {
		t.Fatalf("SectionToJSON failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null, got %s", data)
	}
}
