package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens PostgreSQL for postgres:// URLs and SQLite for anything
// else. SQLite runs on a single connection; an in-memory database is shared
// by name and lives as long as that connection.
func Connect(dbUrl string, logMode bool) (*gorm.DB, error) {
	gormLogger := gormlogger.Default
	if !logMode {
		gormLogger = gormLogger.LogMode(gormlogger.Silent)
	}

	isPostgres := strings.HasPrefix(dbUrl, "postgres://") || strings.HasPrefix(dbUrl, "postgresql://")

	var dialector gorm.Dialector
	if isPostgres {
		dialector = postgres.Open(dbUrl)
	} else {
		dialector = sqlite.Open(dbUrl)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if isPostgres {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
		logger.Info("Connected to database", logger.Fields{"driver": "postgres"})
		return db, nil
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	logger.Info("Connected to database", logger.Fields{"driver": "sqlite", "dsn": dbUrl})
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", logger.WithError(err))
	}
}
