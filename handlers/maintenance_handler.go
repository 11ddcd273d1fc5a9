package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"p9e.in/fleet/models"
	"p9e.in/fleet/services"
)

// MaintenanceHandler exposes the maintenance schedule over HTTP.
type MaintenanceHandler struct {
	maintenance *services.MaintenanceService
	log         *zap.Logger
}

func NewMaintenanceHandler(maintenance *services.MaintenanceService, log *zap.Logger) *MaintenanceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MaintenanceHandler{maintenance: maintenance, log: log}
}

// Create handles POST /api/vehicles/{id}/maintenance.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var item models.MaintenanceItem
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.VehicleID = vehicleID
	created, err := h.maintenance.Create(&item)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/vehicles/{id}/maintenance.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	items, err := h.maintenance.ListForVehicle(vehicleID, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"maintenance": items})
}

// Due handles GET /api/maintenance/due.
func (h *MaintenanceHandler) Due(w http.ResponseWriter, r *http.Request) {
	items, err := h.maintenance.ListDue()
	if err != nil {
		h.log.Error("list due maintenance", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"maintenance": items})
}

// Get handles GET /api/maintenance/{id}.
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid maintenance id")
		return
	}
	item, err := h.maintenance.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/maintenance/{id}.
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid maintenance id")
		return
	}
	var patch services.MaintenancePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := h.maintenance.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Complete handles POST /api/maintenance/{id}/complete.
func (h *MaintenanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid maintenance id")
		return
	}
	var body struct {
		ServiceDate    models.DateOnly `json:"service_date"`
		ServiceMileage *int            `json:"service_mileage"`
	}
	decodeBody(r, &body) // body optional, defaults to today

	item, err := h.maintenance.Complete(id, body.ServiceDate, body.ServiceMileage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/maintenance/{id}.
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid maintenance id")
		return
	}
	ok, err := h.maintenance.Delete(id)
	if err != nil {
		h.log.Error("delete maintenance item", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
