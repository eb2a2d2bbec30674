package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"florist-backend/internal/config"
	"florist-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DefaultRegionName is used for cities created from a free-form supplier address.
const DefaultRegionName = "Не указана"

func Init(cfg *config.Config) {
	db, err := Open(postgres.Open(cfg.DatabaseDSN), cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	DB = db
	log.Println("Database connection established, migration complete.")
}

// Open connects with the given dialector. Tests pass an SQLite dialector.
func Open(dialector gorm.Dialector, level string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(level)),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Region{},
		&models.City{},
		&models.Street{},
		&models.House{},
		&models.Supplier{},
		&models.Document{},
		&models.SupplierDocument{},
		&models.Product{},
		&models.Employee{},
		&models.EmployeeDocument{},
		&models.ReportForm{},
		&models.Position{},
		&models.ArrivalReport{},
		&models.StockReport{},
		&models.LossReport{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the pool behind DB.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
