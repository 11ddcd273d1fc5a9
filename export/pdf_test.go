package export

import (
	"bytes"
	"testing"

	"p9e.in/fleet/models"
)

func TestReportPDF(t *testing.T) {
	r := sampleReport()
	data, err := ReportPDF(&r)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", data[:8])
	}
	if len(data) < 1000 {
		t.Fatalf("pdf suspiciously small: %d bytes", len(data))
	}
}

func TestReportPDFSparseReport(t *testing.T) {
	// A report with only the required fields renders placeholders, not an
	// error.
	r := models.Report{
		ID:             1,
		VehicleNumber:  "9",
		InspectionDate: models.Date(2025, 1, 1),
		InspectorName:  "Pat",
	}
	data, err := ReportPDF(&r)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}
