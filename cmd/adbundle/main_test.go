package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeReport(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"发布账号", "Video ID", "消耗", "支付GMV"},
		{"A", "7301234567890123456", 10, 50},
		{"B", "7301234567890123457", 20, 10},
	}
	sheet := "素材-gmv max"
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ADBUNDLE_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestBundleCommand(t *testing.T) {
	path := writeReport(t)

	out, err := runCLI(t, "bundle", path)
	if err != nil {
		t.Fatalf("bundle failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if _, ok := doc["[特别计算]各账号汇总数据"]; !ok {
		t.Errorf("summary section missing: %s", out)
	}
	if !strings.Contains(out, `"7301234567890123456"`) {
		t.Errorf("long video id not kept as text: %s", out)
	}
}

func TestBundleCommandLightMode(t *testing.T) {
	path := writeReport(t)

	out, err := runCLI(t, "bundle", path, "--mode", "light")
	if err != nil {
		t.Fatalf("bundle failed: %v", err)
	}
	if strings.Contains(out, "特别计算") {
		t.Errorf("light mode should not aggregate: %s", out)
	}
}

func TestBundleCommandSheetsDir(t *testing.T) {
	path := writeReport(t)
	dir := filepath.Join(t.TempDir(), "sections")

	if _, err := runCLI(t, "bundle", path, "--sheets-dir", dir, "--pretty"); err != nil {
		t.Fatalf("bundle failed: %v", err)
	}

	for _, name := range []string{"素材GMV明细.json", "[特别计算]各账号汇总数据.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestBundleCommandErrors(t *testing.T) {
	if _, err := runCLI(t, "bundle", filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := runCLI(t, "bundle", writeReport(t), "--mode", "verbose"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestAnalyzeCommandNeedsAllInputs(t *testing.T) {
	_, err := runCLI(t, "analyze", writeReport(t), "--image", "product.png")
	if err == nil || !strings.Contains(err.Error(), "incomplete inputs") {
		t.Errorf("expected incomplete inputs error, got %v", err)
	}
}

func TestSectionFileName(t *testing.T) {
	tests := []struct {
		alias, want string
	}{
		{"分时段表现", "分时段表现"},
		{"a/b:c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := sectionFileName(tt.alias); got != tt.want {
			t.Errorf("sectionFileName(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}
