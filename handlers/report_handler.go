package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"p9e.in/fleet/models"
	"p9e.in/fleet/services"
)

// ReportHandler exposes inspection reports over HTTP.
type ReportHandler struct {
	reports *services.ReportService
	log     *zap.Logger
}

func NewReportHandler(reports *services.ReportService, log *zap.Logger) *ReportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportHandler{reports: reports, log: log}
}

// List handles GET /api/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.reports.List(services.ReportListOptions{
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		SortBy:    q.Get("sortBy"),
		Order:     q.Get("order"),
		Vehicle:   q.Get("vehicle"),
		Inspector: q.Get("inspector"),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
		Search:    q.Get("search"),
	})
	if err != nil {
		h.log.Error("list reports", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, report)
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := decodeBody(r, &report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.reports.Create(&report)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/reports/{id}.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	var patch services.ReportPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report, err := h.reports.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Delete handles DELETE /api/reports/{id}.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	ok, err := h.reports.Delete(id)
	if err != nil {
		h.log.Error("delete report", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// Statistics handles GET /api/stats.
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Statistics()
	if err != nil {
		h.log.Error("report statistics", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
