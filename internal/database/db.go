package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"threat-tracker/internal/models"
)

// DB is nil when no DB_DSN is configured; the audit helpers are no-ops then.
var DB *gorm.DB

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Init connects to Postgres with retries and migrates the audit table.
// The threat store itself is never written to the database.
func Init(dsn string, log *zap.Logger) error {
	var (
		db  *gorm.DB
		err error
	)

	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to audit database", zap.Int("attempt", i), zap.Int("max", maxAttempts))

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}

		log.Warn("audit database not reachable", zap.Error(err))
		time.Sleep(retryBackoff)
	}
	if err != nil {
		return fmt.Errorf("connect to audit db after %d attempts: %w", maxAttempts, err)
	}

	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return fmt.Errorf("migrate audit table: %w", err)
	}

	DB = db
	log.Info("audit database ready")
	return nil
}
