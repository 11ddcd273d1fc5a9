package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"p9e.in/fleet/models"
	"p9e.in/fleet/services"
	"p9e.in/fleet/storage"
)

// DocumentHandler exposes vehicle attachments over HTTP.
type DocumentHandler struct {
	documents *services.DocumentService
	files     *storage.Store
	log       *zap.Logger
}

func NewDocumentHandler(documents *services.DocumentService, files *storage.Store, log *zap.Logger) *DocumentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentHandler{documents: documents, files: files, log: log}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Upload handles POST /api/vehicles/{id}/documents. The multipart file is
// spooled to the store's temp directory so the final placement is one
// rename on the same filesystem.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	// One extra MB of form-field headroom beyond the file cap.
	if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	tmp, err := h.files.TempFile()
	if err != nil {
		h.log.Error("create upload spool", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	tmpPath := tmp.Name()
	size, err := io.Copy(tmp, io.LimitReader(file, storage.MaxFileSize+1))
	tmp.Close()
	if err != nil {
		os.Remove(tmpPath)
		h.log.Error("spool upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if size > storage.MaxFileSize {
		os.Remove(tmpPath)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", storage.MaxFileSize))
		return
	}

	contentType := header.Header.Get("Content-Type")
	in := services.CreateDocumentInput{
		VehicleID:   vehicleID,
		Category:    models.DocumentCategory(r.FormValue("category")),
		Title:       r.FormValue("title"),
		Description: optionalString(r.FormValue("description")),
		UploadedBy:  optionalString(r.FormValue("uploaded_by")),
		Vendor:      optionalString(r.FormValue("vendor")),
		Tags:        optionalString(r.FormValue("tags")),
	}
	if in.Title == "" {
		in.Title = header.Filename
	}
	if v := r.FormValue("document_date"); v != "" {
		var d models.DateOnly
		if err := d.UnmarshalJSON([]byte(strconv.Quote(v))); err != nil {
			os.Remove(tmpPath)
			writeError(w, http.StatusBadRequest, "invalid document_date")
			return
		}
		in.DocumentDate = &d
	}
	if v := r.FormValue("cost"); v != "" {
		cost, err := strconv.ParseFloat(v, 64)
		if err != nil {
			os.Remove(tmpPath)
			writeError(w, http.StatusBadRequest, "invalid cost")
			return
		}
		in.Cost = &cost
	}

	doc, err := h.documents.Create(in, storage.Upload{
		TempPath:     tmpPath,
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         size,
	})
	if err != nil {
		os.Remove(tmpPath)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// List handles GET /api/vehicles/{id}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	q := r.URL.Query()
	docs, err := h.documents.ListForVehicle(vehicleID, services.DocumentListOptions{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// Stats handles GET /api/vehicles/{id}/documents/stats.
func (h *DocumentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	stats, err := h.documents.Stats(vehicleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := h.documents.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Update handles PUT /api/documents/{id}.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	var patch services.DocumentPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := h.documents.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	ok, err := h.documents.Delete(id)
	if err != nil {
		h.log.Error("delete document", zap.Int64("id", id), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// Download handles GET /api/documents/{id}/download.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	path, doc, err := h.documents.DownloadPath(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	http.ServeFile(w, r, path)
}
