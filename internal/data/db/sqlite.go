package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLiteDSN turns a path into a DSN. ":memory:" and empty paths map to a
// named shared in-memory database.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == ":memory:" {
		return "file:marketledger?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=1"
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=1", path)
}

// OpenSQLite opens a single-connection gorm handle. SQLite has no row locks,
// so one connection serialises every writer.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	db, err := OpenSQLite(SQLiteDSN(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	serviceLog.Info("opened sqlite", "path", path)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

// NewService opens the store selected by driver.
func NewService(logg *logger.Logger, driver string, pg PostgresConfig, sqlitePath string) (*Service, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPostgres:
		return NewPostgresService(logg, pg)
	case DriverSQLite:
		return NewSQLiteService(logg, sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
