package funds

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type TransferRepo interface {
	Create(dbc dbctx.Context, row *domain.Transfer) error
	ListByOrder(dbc dbctx.Context, orderID uint64) ([]*domain.Transfer, error)
	ListByRecipient(dbc dbctx.Context, recipient domain.Identity, limit int) ([]*domain.Transfer, error)
}

type transferRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransferRepo(db *gorm.DB, baseLog *logger.Logger) TransferRepo {
	return &transferRepo{db: db, log: baseLog.With("repo", "TransferRepo")}
}

func (r *transferRepo) Create(dbc dbctx.Context, row *domain.Transfer) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *transferRepo) ListByOrder(dbc dbctx.Context, orderID uint64) ([]*domain.Transfer, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Transfer
	if err := t.WithContext(dbc.Ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transferRepo) ListByRecipient(dbc dbctx.Context, recipient domain.Identity, limit int) ([]*domain.Transfer, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*domain.Transfer
	err := t.WithContext(dbc.Ctx).
		Where("recipient = ?", recipient).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
