package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog + order ledger
		&domain.Product{},
		&domain.Order{},

		// Platform state
		&domain.Sequence{},
		&domain.PlatformSettings{},

		// Funds ledger
		&domain.Account{},
		&domain.Transfer{},

		// Outbox
		&domain.MarketplaceEvent{},
	)
}

// EnsureSequences creates the counter rows so the first Next never races an insert.
func EnsureSequences(db *gorm.DB) error {
	now := time.Now().UTC()
	for _, name := range []string{domain.SequenceProduct, domain.SequenceOrder} {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.Sequence{Name: name, UpdatedAt: now}).Error; err != nil {
			return fmt.Errorf("seed sequence %s: %w", name, err)
		}
	}
	return nil
}

func EnsureMarketIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transfer_order_kind
		ON transfer (order_id, kind);
	`).Error; err != nil {
		return fmt.Errorf("create idx_transfer_order_kind: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_product_order_product_delivered
		ON product_order (product_id, is_delivered);
	`).Error; err != nil {
		return fmt.Errorf("create idx_product_order_product_delivered: %w", err)
	}

	return nil
}

// Migrate runs every schema step against db.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	if err := EnsureMarketIndexes(db); err != nil {
		return err
	}
	return EnsureSequences(db)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating marketplace tables...", "driver", s.driver)
	if err := Migrate(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}
