package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the access-log database. It returns nil, nil when no
// database is configured.
func NewDatabase(cfg *DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if !cfg.Enabled() {
		log.Info("DB_NAME not set, request logs will not be persisted")
		return nil, nil
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// API logs are written from a background goroutine per request; keep
	// the pool small.
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Database connection established", zap.String("host", cfg.Host), zap.String("name", cfg.Name))
	return db, nil
}
