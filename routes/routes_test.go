package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"p9e.in/fleet/config"
	"p9e.in/fleet/handlers"
	"p9e.in/fleet/services"
	"p9e.in/fleet/storage"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := config.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := config.Migrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	files, err := storage.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	vehicleSvc := services.NewVehicleService(db, files, nil)
	reportSvc := services.NewReportService(db, vehicleSvc, nil)
	documentSvc := services.NewDocumentService(db, files, nil)
	noteSvc := services.NewNoteService(db, nil)
	maintenanceSvc := services.NewMaintenanceService(db, nil)

	return RegisterRoutes(Handlers{
		Vehicles:    handlers.NewVehicleHandler(vehicleSvc, nil),
		Reports:     handlers.NewReportHandler(reportSvc, nil),
		Documents:   handlers.NewDocumentHandler(documentSvc, files, nil),
		Notes:       handlers.NewNoteHandler(noteSvc, nil),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceSvc, nil),
		Exports:     handlers.NewExportHandler(reportSvc, nil),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestReportCreateAndFetch(t *testing.T) {
	h := testRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number":  "T-9",
		"inspection_date": "2025-06-15",
		"inspector_name":  "Pat",
		"make":            "Mack",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/reports/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", w.Code)
	}

	// The vehicle was upserted as a side effect.
	w = doJSON(t, h, http.MethodGet, "/api/vehicles/number/T-9", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vehicle fetch status = %d", w.Code)
	}
}

func TestReportValidationMapsTo400(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMissingReportMapsTo404(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodGet, "/api/reports/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEmptyPatchMapsTo400(t *testing.T) {
	h := testRouter(t)
	doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})

	w := doJSON(t, h, http.MethodGet, "/api/vehicles", nil)
	var page struct {
		Vehicles []struct {
			ID int64 `json:"id"`
		} `json:"vehicles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page.Vehicles) != 1 {
		t.Fatalf("vehicle list: %v, %s", err, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/vehicles/%d", page.Vehicles[0].ID), map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty patch status = %d, want 400", w.Code)
	}
}

func TestDocumentUploadAndDownload(t *testing.T) {
	h := testRouter(t)

	doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})
	w := doJSON(t, h, http.MethodGet, "/api/vehicles", nil)
	var page struct {
		Vehicles []struct {
			ID int64 `json:"id"`
		} `json:"vehicles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page.Vehicles) != 1 {
		t.Fatalf("vehicle list: %v", err)
	}
	vehicleID := page.Vehicles[0].ID

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("category", "invoice")
	mw.WriteField("title", "June invoice")
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="invoice.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("%PDF-1.4 test"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/vehicles/%d/documents", vehicleID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/documents/%d/download", doc.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("%PDF-1.4 test")) {
		t.Fatal("downloaded content does not match upload")
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	h := testRouter(t)
	doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})

	w := doJSON(t, h, http.MethodGet, "/api/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %s", got)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("T-1")) {
		t.Fatal("export does not contain the seeded report")
	}
}

func TestExportCSVIncludesAllReports(t *testing.T) {
	h := testRouter(t)
	// Seed more reports than any default page size.
	for i := 0; i < 60; i++ {
		w := doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
			"vehicle_number":  "T-1",
			"inspection_date": fmt.Sprintf("2025-01-%02d", 1+i%28),
			"inspector_name":  "Pat",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed report %d: status %d", i, w.Code)
		}
	}

	w := doJSON(t, h, http.MethodGet, "/api/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	lines := bytes.Count(bytes.TrimSpace(w.Body.Bytes()), []byte("\n")) + 1
	if lines != 61 {
		t.Fatalf("export lines = %d, want header + 60 rows", lines)
	}
}

func TestUpdateIgnoresUnknownFields(t *testing.T) {
	h := testRouter(t)
	doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})
	w := doJSON(t, h, http.MethodGet, "/api/vehicles", nil)
	var page struct {
		Vehicles []struct {
			ID int64 `json:"id"`
		} `json:"vehicles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page.Vehicles) != 1 {
		t.Fatalf("vehicle list: %v", err)
	}

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/vehicles/%d", page.Vehicles[0].ID), map[string]interface{}{
		"make":        "Ford",
		"bogus_field": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; unknown keys must be dropped, not rejected", w.Code, w.Body.String())
	}
	var updated struct {
		Make *string `json:"make"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Make == nil || *updated.Make != "Ford" {
		t.Fatalf("make = %v, want Ford applied alongside the ignored key", updated.Make)
	}
}

func TestReportPDFEndpoint(t *testing.T) {
	h := testRouter(t)
	w := doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})
	var created struct {
		ID int64 `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/reports/%d/pdf", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF")
	}
}

func TestSoftThenPermanentDelete(t *testing.T) {
	h := testRouter(t)
	doJSON(t, h, http.MethodPost, "/api/reports", map[string]interface{}{
		"vehicle_number": "T-1", "inspection_date": "2025-06-01", "inspector_name": "Pat",
	})
	w := doJSON(t, h, http.MethodGet, "/api/vehicles", nil)
	var page struct {
		Vehicles []struct {
			ID int64 `json:"id"`
		} `json:"vehicles"`
	}
	json.Unmarshal(w.Body.Bytes(), &page)
	id := page.Vehicles[0].ID

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/vehicles/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("soft delete status = %d", w.Code)
	}
	// Reports survive a soft delete.
	w = doJSON(t, h, http.MethodGet, "/api/reports", nil)
	if !bytes.Contains(w.Body.Bytes(), []byte("T-1")) {
		t.Fatal("report vanished after soft delete")
	}

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/vehicles/%d/permanent", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("permanent delete status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/reports", nil)
	if bytes.Contains(w.Body.Bytes(), []byte("T-1")) {
		t.Fatal("report survived permanent delete")
	}
}
