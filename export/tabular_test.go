package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"p9e.in/fleet/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func sampleReport() models.Report {
	return models.Report{
		ID:             12,
		VehicleNumber:  "T-5",
		InspectionDate: models.Date(2025, 6, 15),
		InspectorName:  "Pat",
		Make:           strPtr("Mack"),
		Year:           intPtr(2019),
		Mileage:        intPtr(42000),
		SteeringGood:   boolPtr(true),
		BrakesWork:     boolPtr(false),
		TirePressureRF: floatPtr(95.5),
		Defects:        strPtr("worn pads"),
	}
}

func TestReportsCSVColumns(t *testing.T) {
	data, err := ReportsCSV([]models.Report{sampleReport()})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if len(rows[0]) != 35 {
		t.Fatalf("columns = %d, want 35", len(rows[0]))
	}
	if rows[0][0] != "id" || rows[0][34] != "created_at" {
		t.Fatalf("column order wrong: first=%s last=%s", rows[0][0], rows[0][34])
	}

	row := rows[1]
	byName := map[string]string{}
	for i, col := range rows[0] {
		byName[col] = row[i]
	}
	if byName["id"] != "12" {
		t.Errorf("id = %s", byName["id"])
	}
	if byName["inspection_date"] != "2025-06-15" {
		t.Errorf("inspection_date = %s", byName["inspection_date"])
	}
	if byName["steering_good"] != "1" {
		t.Errorf("true checkbox = %q, want 1", byName["steering_good"])
	}
	if byName["brakes_work"] != "0" {
		t.Errorf("false checkbox = %q, want 0", byName["brakes_work"])
	}
	if byName["parking_brake_work"] != "" {
		t.Errorf("nil checkbox = %q, want empty", byName["parking_brake_work"])
	}
	if byName["tire_pressure_rf"] != "95.5" {
		t.Errorf("tire pressure = %q, want 95.5", byName["tire_pressure_rf"])
	}
	if byName["defects"] != "worn pads" {
		t.Errorf("defects = %q", byName["defects"])
	}
}

func TestReportsCSVDeterministic(t *testing.T) {
	reports := []models.Report{sampleReport()}
	a, err := ReportsCSV(reports)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := ReportsCSV(reports)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same input rendered different CSV")
	}
}

func TestReportsCSVEmpty(t *testing.T) {
	data, err := ReportsCSV(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty export lines = %d, want header only", len(lines))
	}
}

func TestReportsXLSX(t *testing.T) {
	f, err := ReportsXLSX([]models.Report{sampleReport()})
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Reports" {
		t.Fatalf("sheets = %v, want [Reports]", sheets)
	}

	header, err := f.GetCellValue("Reports", "A1")
	if err != nil || header != "id" {
		t.Fatalf("A1 = %q (%v), want id", header, err)
	}
	first, err := f.GetCellValue("Reports", "A2")
	if err != nil || first != "12" {
		t.Fatalf("A2 = %q (%v), want 12", first, err)
	}
	number, err := f.GetCellValue("Reports", "B2")
	if err != nil || number != "T-5" {
		t.Fatalf("B2 = %q (%v), want T-5", number, err)
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename("reports", "csv", "20250615_120000")
	if got != "reports_20250615_120000.csv" {
		t.Fatalf("filename = %s", got)
	}
	got = ExportFilename("weird name!", "xlsx", "x")
	if strings.ContainsAny(got, " !") {
		t.Fatalf("unsafe filename = %s", got)
	}
}
