package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database.
// TranslateError is enabled so natural-key collisions surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func Connect(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// Models returns every persisted model in dependency order. AutoMigrate and
// the sqlite-backed test setups share this list.
func Models() []interface{} {
	return []interface{}{
		&Incident{},
		&Activity{},
		&AbandonedVehicle{},
		&Graffiti{},
		&Tree{},
		&SanitationCodeViolation{},
		&ActivityIncident{},
		&AbandonedVehicleIncident{},
		&GraffitiIncident{},
		&TreeIncident{},
		&SanitationCodeViolationIncident{},
		&NumberOfCartsAndPotholes{},
		&RodentBaitingPremises{},
	}
}

// AutoMigrate runs database migrations
func AutoMigrate() error {
	log.Println("Running database migrations...")

	if err := DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
