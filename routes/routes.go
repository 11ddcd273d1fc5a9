package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/fleet/handlers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Vehicles    *handlers.VehicleHandler
	Reports     *handlers.ReportHandler
	Documents   *handlers.DocumentHandler
	Notes       *handlers.NoteHandler
	Maintenance *handlers.MaintenanceHandler
	Exports     *handlers.ExportHandler
}

// RegisterRoutes wires the full API surface onto a new router.
func RegisterRoutes(h Handlers) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Reports
	api.HandleFunc("/reports", h.Reports.List).Methods(http.MethodGet)
	api.HandleFunc("/reports", h.Reports.Create).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id:[0-9]+}", h.Reports.Get).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id:[0-9]+}", h.Reports.Update).Methods(http.MethodPut)
	api.HandleFunc("/reports/{id:[0-9]+}", h.Reports.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/reports/{id:[0-9]+}/pdf", h.Exports.ReportPDF).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Reports.Statistics).Methods(http.MethodGet)

	// Exports
	api.HandleFunc("/export/csv", h.Exports.ReportsCSV).Methods(http.MethodGet)
	api.HandleFunc("/export/xlsx", h.Exports.ReportsXLSX).Methods(http.MethodGet)

	// Vehicles
	api.HandleFunc("/vehicles", h.Vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", h.Vehicles.Upsert).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/number/{number}", h.Vehicles.GetByNumber).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Update).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.SoftDelete).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id:[0-9]+}/permanent", h.Vehicles.PermanentDelete).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id:[0-9]+}/summary", h.Vehicles.Summary).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/timeline", h.Vehicles.Timeline).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/reports", h.Vehicles.Reports).Methods(http.MethodGet)

	// Documents
	api.HandleFunc("/vehicles/{id:[0-9]+}/documents", h.Documents.Upload).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}/documents", h.Documents.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/documents/stats", h.Documents.Stats).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id:[0-9]+}", h.Documents.Get).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id:[0-9]+}", h.Documents.Update).Methods(http.MethodPut)
	api.HandleFunc("/documents/{id:[0-9]+}", h.Documents.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id:[0-9]+}/download", h.Documents.Download).Methods(http.MethodGet)

	// Notes
	api.HandleFunc("/vehicles/{id:[0-9]+}/notes", h.Notes.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}/notes", h.Notes.List).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id:[0-9]+}", h.Notes.Get).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id:[0-9]+}", h.Notes.Update).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id:[0-9]+}", h.Notes.Delete).Methods(http.MethodDelete)

	// Maintenance
	api.HandleFunc("/maintenance/due", h.Maintenance.Due).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/maintenance", h.Maintenance.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}/maintenance", h.Maintenance.List).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Get).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Update).Methods(http.MethodPut)
	api.HandleFunc("/maintenance/{id:[0-9]+}/complete", h.Maintenance.Complete).Methods(http.MethodPost)
	api.HandleFunc("/maintenance/{id:[0-9]+}", h.Maintenance.Delete).Methods(http.MethodDelete)

	return r
}
