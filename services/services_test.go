package services

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"p9e.in/fleet/config"
	"p9e.in/fleet/models"
	"p9e.in/fleet/storage"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	return store
}

func strPtr(s string) *string       { return &s }
func intPtr(n int) *int             { return &n }
func floatPtr(f float64) *float64   { return &f }
func boolPtr(b bool) *bool          { return &b }

func seedVehicle(t *testing.T, db *gorm.DB, number string) *models.Vehicle {
	t.Helper()
	v := &models.Vehicle{VehicleNumber: number, Status: models.VehicleStatusActive}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed vehicle %s: %v", number, err)
	}
	return v
}
