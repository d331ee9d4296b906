package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/data/repos/catalog"
	"github.com/yungbote/marketledger-backend/internal/data/repos/events"
	"github.com/yungbote/marketledger-backend/internal/data/repos/funds"
	"github.com/yungbote/marketledger-backend/internal/data/repos/orders"
	"github.com/yungbote/marketledger-backend/internal/data/repos/platform"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type ProductRepo = catalog.ProductRepo
type OrderRepo = orders.OrderRepo

type SequenceRepo = platform.SequenceRepo
type SettingsRepo = platform.SettingsRepo

type AccountRepo = funds.AccountRepo
type TransferRepo = funds.TransferRepo

type EventRepo = events.EventRepo

var ErrSequenceContention = platform.ErrSequenceContention

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, baseLog)
}
func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return orders.NewOrderRepo(db, baseLog)
}

func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return platform.NewSequenceRepo(db, baseLog)
}
func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return platform.NewSettingsRepo(db, baseLog)
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return funds.NewAccountRepo(db, baseLog)
}
func NewTransferRepo(db *gorm.DB, baseLog *logger.Logger) TransferRepo {
	return funds.NewTransferRepo(db, baseLog)
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return events.NewEventRepo(db, baseLog)
}
