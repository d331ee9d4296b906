package platform

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

// ErrSequenceContention is returned when a sequence row moved under a held lock.
var ErrSequenceContention = errors.New("sequence value changed concurrently")

// SequenceRepo hands out monotonic ids. Next must run inside the transaction
// that consumes the id so a rollback also returns the id.
type SequenceRepo interface {
	Next(dbc dbctx.Context, name string) (uint64, error)
	Current(dbc dbctx.Context, name string) (uint64, error)
}

type sequenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return &sequenceRepo{db: db, log: baseLog.With("repo", "SequenceRepo")}
}

func (r *sequenceRepo) Next(dbc dbctx.Context, name string) (uint64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	name = strings.TrimSpace(name)
	now := time.Now().UTC()
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Sequence{Name: name, Value: 0, UpdatedAt: now}).Error; err != nil {
		return 0, err
	}
	var row domain.Sequence
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		Limit(1).
		Find(&row).Error; err != nil {
		return 0, err
	}
	next := row.Value + 1
	res := t.WithContext(dbc.Ctx).
		Model(&domain.Sequence{}).
		Where("name = ? AND value = ?", name, row.Value).
		Updates(map[string]interface{}{"value": next, "updated_at": now})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrSequenceContention
	}
	return next, nil
}

func (r *sequenceRepo) Current(dbc dbctx.Context, name string) (uint64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row domain.Sequence
	if err := t.WithContext(dbc.Ctx).Where("name = ?", strings.TrimSpace(name)).Limit(1).Find(&row).Error; err != nil {
		return 0, err
	}
	return row.Value, nil
}
