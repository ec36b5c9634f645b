package db

import (
	"fmt"

	"catalogcart/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database selected by cfg.StoreDriver and returns *gorm.DB.
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{TranslateError: true}
	if cfg.GoEnv == "production" {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	default:
		return nil, fmt.Errorf("no database for store driver %q", cfg.StoreDriver)
	}
}
