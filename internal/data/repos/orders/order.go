package orders

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type OrderRepo interface {
	Create(dbc dbctx.Context, row *domain.Order) error

	GetByID(dbc dbctx.Context, id uint64) (*domain.Order, error)
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*domain.Order, error)

	// ListIDsByBuyer returns the buyer's order ids in purchase order.
	ListIDsByBuyer(dbc dbctx.Context, buyer domain.Identity) ([]uint64, error)
	ListByProduct(dbc dbctx.Context, productID uint64) ([]*domain.Order, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(dbc dbctx.Context, row *domain.Order) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *orderRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*domain.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Order
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) GetByID(dbc dbctx.Context, id uint64) (*domain.Order, error) {
	if id == 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uint64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *orderRepo) ListIDsByBuyer(dbc dbctx.Context, buyer domain.Identity) ([]uint64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []uint64{}
	if buyer.IsZero() {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Model(&domain.Order{}).
		Where("buyer = ?", buyer).
		Order("id ASC").
		Pluck("id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) ListByProduct(dbc dbctx.Context, productID uint64) ([]*domain.Order, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Order
	if productID == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("product_id = ?", productID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
