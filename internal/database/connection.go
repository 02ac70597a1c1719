package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/config"
	"github.com/thereayou/chat-local/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the store selected by cfg.DBDriver and migrates the schema.
func Connect(cfg *config.Config) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	return Open(dialector, NewLogger(cfg.DBLogLevel))
}

func Open(dialector gorm.Dialector, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger,
		NowFunc: utcNow,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", dialector.Name(), err)
	}

	// SQLite allows one writer; a single connection keeps transactions from
	// tripping over each other.
	if dialector.Name() == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(&models.Room{}, &models.Message{}, &models.Member{})
	if err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}

	return NewDatabase(db), nil
}

// NewLogger maps DB_LOG_LEVEL onto gorm's logger.
func NewLogger(level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// OpenMemory opens a private in-memory SQLite store with SQL logging off.
func OpenMemory() (*Database, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
}
