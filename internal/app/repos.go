package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type Repos struct {
	Products  repos.ProductRepo
	Orders    repos.OrderRepo
	Sequences repos.SequenceRepo
	Settings  repos.SettingsRepo
	Accounts  repos.AccountRepo
	Transfers repos.TransferRepo
	Events    repos.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Products:  repos.NewProductRepo(db, log),
		Orders:    repos.NewOrderRepo(db, log),
		Sequences: repos.NewSequenceRepo(db, log),
		Settings:  repos.NewSettingsRepo(db, log),
		Accounts:  repos.NewAccountRepo(db, log),
		Transfers: repos.NewTransferRepo(db, log),
		Events:    repos.NewEventRepo(db, log),
	}
}
