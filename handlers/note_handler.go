package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"p9e.in/fleet/models"
	"p9e.in/fleet/services"
)

// NoteHandler exposes vehicle notes over HTTP.
type NoteHandler struct {
	notes *services.NoteService
	log   *zap.Logger
}

func NewNoteHandler(notes *services.NoteService, log *zap.Logger) *NoteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoteHandler{notes: notes, log: log}
}

// Create handles POST /api/vehicles/{id}/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var note models.VehicleNote
	if err := decodeBody(r, &note); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	note.VehicleID = vehicleID
	created, err := h.notes.Create(&note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/vehicles/{id}/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	notes, err := h.notes.ListForVehicle(vehicleID, r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	note, err := h.notes.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	var patch services.NotePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	note, err := h.notes.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	ok, err := h.notes.Delete(id)
	if err != nil {
		h.log.Error("delete note", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
