package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseManager struct {
	SqlDB    *sql.DB
	DB       *gorm.DB
	Driver   string
	LogLevel LogLevel
}

// ParseLogLevel maps a config string to a LogLevel. Unknown values map to warn.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "info":
		return LogLevelInfo
	default:
		return LogLevelWarn
	}
}

// New opens the pool for the given driver ("mysql" or "sqlite").
func New(driver, dsn string, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// Map local LogLevel to GORM LogLevel
	gormLogLevel := logger.Warn
	switch level {
	case LogLevelError:
		gormLogLevel = logger.Error
	case LogLevelInfo:
		gormLogLevel = logger.Info
	case LogLevelSilent:
		gormLogLevel = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite allows a single writer
		maxConnection = 1
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{SqlDB: sqlDB, DB: db, Driver: driver, LogLevel: level}, nil
}

// Close closes the global pool
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}

func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.DB.WithContext(ctx))
}

// Transaction runs fn inside a single transaction; any error rolls it back.
func (dm *DatabaseManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return dm.DB.WithContext(ctx).Transaction(fn)
}

// Migrate creates missing tables, columns and indexes for the given models.
func (dm *DatabaseManager) Migrate(ctx context.Context, models ...interface{}) error {
	if err := dm.DB.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
