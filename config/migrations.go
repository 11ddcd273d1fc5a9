package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
)

// Migrations brings the schema up to date. IDs are dated so new migrations
// append below the existing ones.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250810_create_fleet_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.Vehicle{},
					&models.Report{},
					&models.Document{},
					&models.VehicleNote{},
					&models.MaintenanceItem{},
					&models.StatusHistory{},
				)
			},
		},
		{
			ID: "20250810_create_fleet_indexes",
			Migrate: func(tx *gorm.DB) error {
				stmts := []string{
					"CREATE INDEX IF NOT EXISTS idx_reports_inspection_date ON reports(inspection_date)",
					"CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category)",
					"CREATE INDEX IF NOT EXISTS idx_documents_upload_date ON documents(upload_date)",
					"CREATE INDEX IF NOT EXISTS idx_maintenance_status ON maintenance_schedule(status)",
				}
				for _, stmt := range stmts {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
