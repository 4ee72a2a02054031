package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vtsiatouras/311-chicago-incidents/internal/config"
	"github.com/vtsiatouras/311-chicago-incidents/internal/database"
	"github.com/vtsiatouras/311-chicago-incidents/internal/importer"
	"gorm.io/gorm/logger"
)

// import311 bulk-loads Chicago 311 CSV exports into the relational store.
// Each argument is one CSV file; files are dispatched to their dataset
// pipeline by filename.
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <csv-file> [<csv-file>...]", os.Args[0])
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	summary := importer.NewImporter(database.GetDB()).Run(os.Args[1:])
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
