package database

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"optlisting/internal/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.SupplierSignal{},
		&models.CsvFormatSpec{},
		&models.ExportColumn{},
		&models.AnalysisRun{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := seedRuleTables(db); err != nil {
		log.WithError(err).Warn("seeding rule tables")
	}

	log.Info("Database initialized successfully")
	return db, nil
}

// seedRuleTables installs the built-in supplier signals and export
// format specs when the tables are empty. Seeding is idempotent; rows
// added or edited operationally are never overwritten.
func seedRuleTables(db *gorm.DB) error {
	var signalCount int64
	if err := db.Model(&models.SupplierSignal{}).Count(&signalCount).Error; err != nil {
		return err
	}
	if signalCount == 0 {
		signals := models.DefaultSupplierSignals()
		if err := db.Create(&signals).Error; err != nil {
			return fmt.Errorf("seed supplier signals: %w", err)
		}
		log.WithField("count", len(signals)).Info("Seeded supplier signal table")
	}

	var specCount int64
	if err := db.Model(&models.CsvFormatSpec{}).Count(&specCount).Error; err != nil {
		return err
	}
	if specCount == 0 {
		specs := models.DefaultFormatSpecs()
		if err := db.Create(&specs).Error; err != nil {
			return fmt.Errorf("seed format specs: %w", err)
		}
		log.WithField("count", len(specs)).Info("Seeded export format specs")
	}
	return nil
}
