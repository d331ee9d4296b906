package events

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

// EventRepo is the marketplace outbox. Rows are append-only.
type EventRepo interface {
	Create(dbc dbctx.Context, row *domain.MarketplaceEvent) error
	ListAfter(dbc dbctx.Context, afterID uint64, limit int) ([]*domain.MarketplaceEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(dbc dbctx.Context, row *domain.MarketplaceEvent) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *eventRepo) ListAfter(dbc dbctx.Context, afterID uint64, limit int) ([]*domain.MarketplaceEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*domain.MarketplaceEvent
	err := t.WithContext(dbc.Ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
