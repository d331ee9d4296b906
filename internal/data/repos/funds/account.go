package funds

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type AccountRepo interface {
	GetByIdentity(dbc dbctx.Context, id domain.Identity) (*domain.Account, error)

	// LockOrCreate returns the account row locked for update, inserting an
	// empty account first when none exists.
	LockOrCreate(dbc dbctx.Context, id domain.Identity) (*domain.Account, error)

	SetBalance(dbc dbctx.Context, id domain.Identity, balance uint64) error
	SetRejectsFunds(dbc dbctx.Context, id domain.Identity, rejects bool) error
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) GetByIdentity(dbc dbctx.Context, id domain.Identity) (*domain.Account, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row domain.Account
	if err := t.WithContext(dbc.Ctx).Where("identity = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.Identity == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *accountRepo) ensure(t *gorm.DB, dbc dbctx.Context, id domain.Identity) error {
	now := time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Account{Identity: id, CreatedAt: now, UpdatedAt: now}).Error
}

func (r *accountRepo) LockOrCreate(dbc dbctx.Context, id domain.Identity) (*domain.Account, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := r.ensure(t, dbc, id); err != nil {
		return nil, err
	}
	var row domain.Account
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("identity = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *accountRepo) SetBalance(dbc dbctx.Context, id domain.Identity, balance uint64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&domain.Account{}).
		Where("identity = ?", id).
		Updates(map[string]interface{}{"balance": balance, "updated_at": time.Now().UTC()}).Error
}

func (r *accountRepo) SetRejectsFunds(dbc dbctx.Context, id domain.Identity, rejects bool) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := r.ensure(t, dbc, id); err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).
		Model(&domain.Account{}).
		Where("identity = ?", id).
		Updates(map[string]interface{}{"rejects_funds": rejects, "updated_at": time.Now().UTC()}).Error
}
