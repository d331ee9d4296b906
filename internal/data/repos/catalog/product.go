package catalog

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type ProductRepo interface {
	Create(dbc dbctx.Context, row *domain.Product) error

	GetByID(dbc dbctx.Context, id uint64) (*domain.Product, error)
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*domain.Product, error)
	LockByID(dbc dbctx.Context, id uint64) (*domain.Product, error)

	// ListIDsBySeller returns the seller's product ids in listing order.
	ListIDsBySeller(dbc dbctx.Context, seller domain.Identity) ([]uint64, error)

	UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(dbc dbctx.Context, row *domain.Product) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*domain.Product, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) GetByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
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

func (r *productRepo) LockByID(dbc dbctx.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row domain.Product
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *productRepo) ListIDsBySeller(dbc dbctx.Context, seller domain.Identity) ([]uint64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []uint64{}
	if seller.IsZero() {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Model(&domain.Product{}).
		Where("seller = ?", seller).
		Order("id ASC").
		Pluck("id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}
