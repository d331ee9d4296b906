package platform

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type SettingsRepo interface {
	Get(dbc dbctx.Context) (*domain.PlatformSettings, error)
	Lock(dbc dbctx.Context) (*domain.PlatformSettings, error)

	// CreateIfAbsent inserts the settings row unless one exists.
	CreateIfAbsent(dbc dbctx.Context, owner domain.Identity) error
	UpdateOwner(dbc dbctx.Context, owner domain.Identity) error
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

func (r *settingsRepo) Get(dbc dbctx.Context) (*domain.PlatformSettings, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row domain.PlatformSettings
	if err := t.WithContext(dbc.Ctx).Where("name = ?", domain.PlatformSettingsKey).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.Key == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *settingsRepo) Lock(dbc dbctx.Context) (*domain.PlatformSettings, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row domain.PlatformSettings
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", domain.PlatformSettingsKey).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Key == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *settingsRepo) CreateIfAbsent(dbc dbctx.Context, owner domain.Identity) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.PlatformSettings{
			Key:       domain.PlatformSettingsKey,
			Owner:     owner,
			UpdatedAt: time.Now().UTC(),
		}).Error
}

func (r *settingsRepo) UpdateOwner(dbc dbctx.Context, owner domain.Identity) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&domain.PlatformSettings{}).
		Where("name = ?", domain.PlatformSettingsKey).
		Updates(map[string]interface{}{"owner": owner, "updated_at": time.Now().UTC()}).Error
}
