package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"p9e.in/fleet/services"
)

// VehicleHandler exposes the vehicle registry over HTTP.
type VehicleHandler struct {
	vehicles *services.VehicleService
	log      *zap.Logger
}

func NewVehicleHandler(vehicles *services.VehicleService, log *zap.Logger) *VehicleHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &VehicleHandler{vehicles: vehicles, log: log}
}

// List handles GET /api/vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.vehicles.List(services.VehicleListOptions{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
		Status:   q.Get("status"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
	})
	if err != nil {
		h.log.Error("list vehicles", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Upsert handles POST /api/vehicles: inserts the number if unseen,
// otherwise coalesces the supplied fields into the existing row.
func (h *VehicleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in services.UpsertVehicleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.vehicles.Upsert(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Get handles GET /api/vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := h.vehicles.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetByNumber handles GET /api/vehicles/number/{number}.
func (h *VehicleHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]
	v, err := h.vehicles.GetByNumber(number)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Update handles PUT /api/vehicles/{id}.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var patch services.VehiclePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.vehicles.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SoftDelete handles DELETE /api/vehicles/{id}: the vehicle is retired,
// all dependent records survive.
func (h *VehicleHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var body struct {
		Reason *string `json:"reason"`
	}
	decodeBody(r, &body) // body optional

	ok, err := h.vehicles.SoftDelete(id, body.Reason)
	if err != nil {
		h.log.Error("soft delete vehicle", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"retired": true})
}

// PermanentDelete handles DELETE /api/vehicles/{id}/permanent: the vehicle
// and every dependent record are removed in one transaction.
func (h *VehicleHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	ok, err := h.vehicles.PermanentDelete(id)
	if err != nil {
		h.log.Error("permanently delete vehicle", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// Summary handles GET /api/vehicles/{id}/summary.
func (h *VehicleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	summary, err := h.vehicles.Summary(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Timeline handles GET /api/vehicles/{id}/timeline.
func (h *VehicleHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	events, err := h.vehicles.Timeline(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"timeline": events})
}

// Reports handles GET /api/vehicles/{id}/reports.
func (h *VehicleHandler) Reports(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := h.vehicles.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	reports, err := h.vehicles.ReportsFor(v.VehicleNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}
