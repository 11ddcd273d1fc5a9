package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"p9e.in/fleet/config"
	"p9e.in/fleet/handlers"
	"p9e.in/fleet/middleware"
	"p9e.in/fleet/routes"
	"p9e.in/fleet/services"
	"p9e.in/fleet/storage"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	settings := config.Load()

	db, err := config.Connect(settings.DBPath)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := config.Migrations(db); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	files, err := storage.NewStore(settings.UploadDir, log)
	if err != nil {
		log.Fatal("open attachment store", zap.Error(err))
	}

	vehicleSvc := services.NewVehicleService(db, files, log)
	reportSvc := services.NewReportService(db, vehicleSvc, log)
	documentSvc := services.NewDocumentService(db, files, log)
	noteSvc := services.NewNoteService(db, log)
	maintenanceSvc := services.NewMaintenanceService(db, log)

	router := routes.RegisterRoutes(routes.Handlers{
		Vehicles:    handlers.NewVehicleHandler(vehicleSvc, log),
		Reports:     handlers.NewReportHandler(reportSvc, log),
		Documents:   handlers.NewDocumentHandler(documentSvc, files, log),
		Notes:       handlers.NewNoteHandler(noteSvc, log),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceSvc, log),
		Exports:     handlers.NewExportHandler(reportSvc, log),
	})

	handler := middleware.CORS(middleware.RequestLogger(log)(router))

	log.Info("fleet records engine listening",
		zap.String("port", settings.Port),
		zap.String("db", settings.DBPath),
		zap.String("uploads", settings.UploadDir),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(":"+settings.Port, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
