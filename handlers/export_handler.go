package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"p9e.in/fleet/export"
	"p9e.in/fleet/models"
	"p9e.in/fleet/services"
)

// ExportHandler renders reports as PDF, CSV and XLSX downloads.
type ExportHandler struct {
	reports *services.ReportService
	log     *zap.Logger
}

func NewExportHandler(reports *services.ReportService, log *zap.Logger) *ExportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportHandler{reports: reports, log: log}
}

// ReportPDF handles GET /api/reports/{id}/pdf.
func (h *ExportHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	report, err := h.reports.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := export.ReportPDF(report)
	if err != nil {
		h.log.Error("render report pdf", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	filename := fmt.Sprintf("report_%d_%s.pdf", report.ID, report.InspectionDate.String())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// exportReports resolves the ids query parameter: explicit ids when given,
// otherwise every report.
func (h *ExportHandler) exportReports(r *http.Request) ([]models.Report, error) {
	idsParam := r.URL.Query().Get("ids")
	if idsParam == "" {
		return h.reports.All()
	}

	var reports []models.Report
	for _, raw := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, err
		}
		report, err := h.reports.Get(id)
		if err != nil {
			// Unknown ids are skipped, not fatal.
			continue
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// ReportsCSV handles GET /api/export/csv.
func (h *ExportHandler) ReportsCSV(w http.ResponseWriter, r *http.Request) {
	reports, err := h.exportReports(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ids parameter")
		return
	}

	data, err := export.ReportsCSV(reports)
	if err != nil {
		h.log.Error("render reports csv", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate CSV")
		return
	}

	filename := export.ExportFilename("reports", "csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ReportsXLSX handles GET /api/export/xlsx.
func (h *ExportHandler) ReportsXLSX(w http.ResponseWriter, r *http.Request) {
	reports, err := h.exportReports(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ids parameter")
		return
	}

	f, err := export.ReportsXLSX(reports)
	if err != nil {
		h.log.Error("render reports xlsx", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate Excel file")
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		h.log.Error("write reports xlsx", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to write Excel file")
		return
	}

	filename := export.ExportFilename("reports", "xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
