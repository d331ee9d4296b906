package aggregates

import (
	"strings"

	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CASGuard provides compare-and-set helpers for aggregate writes.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateGuarded updates the row with the given id only while guard still holds.
// It reports whether a row was changed.
func (g CASGuard) UpdateGuarded(dbc dbctx.Context, table string, id uint64, guard string, guardArgs []any, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	guard = strings.TrimSpace(guard)
	if table == "" || id == 0 {
		return false, ValidationError("table and id are required for UpdateGuarded")
	}
	if guard == "" {
		return false, ValidationError("guard must not be empty")
	}
	if len(updates) == 0 {
		return false, ValidationError("updates must not be empty")
	}
	q := db.Table(table).Where("id = ?", id).Where(guard, guardArgs...)
	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
