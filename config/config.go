package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Settings holds everything read from the environment.
type Settings struct {
	DBPath    string
	UploadDir string
	Port      string
}

// Load reads .env (if present) and the FLEET_* environment variables.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	s := Settings{
		DBPath:    os.Getenv("FLEET_DB_PATH"),
		UploadDir: os.Getenv("FLEET_UPLOAD_DIR"),
		Port:      os.Getenv("PORT"),
	}
	if s.DBPath == "" {
		s.DBPath = filepath.Join("data", "fleet.db")
	}
	if s.UploadDir == "" {
		s.UploadDir = "uploads"
	}
	if s.Port == "" {
		s.Port = "8080"
	}
	return s
}

// Connect opens the sqlite database at path and returns the handle. The
// handle is passed explicitly into each service; there is no package-level
// database state.
func Connect(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// sqlite does not enforce foreign keys unless asked.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}
