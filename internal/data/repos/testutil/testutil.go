package testutil

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/marketledger-backend/internal/data/db"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	sqliteSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database. Each call gets an isolated in-memory SQLite
// database; set TEST_POSTGRES_DSN to run against Postgres instead.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var (
		gdb *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = db.OpenPostgres(dsn, cfg)
		if err == nil {
			err = truncateAll(gdb)
		}
	} else {
		name := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_busy_timeout=5000", sqliteSeq.Add(1))
		gdb, err = db.OpenSQLite(name, cfg)
	}
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func truncateAll(gdb *gorm.DB) error {
	if err := db.AutoMigrateAll(gdb); err != nil {
		return err
	}
	return gdb.Exec(`TRUNCATE product, product_order, sequence, platform_settings, account, transfer, marketplace_event`).Error
}
