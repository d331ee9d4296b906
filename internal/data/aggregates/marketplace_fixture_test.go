package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	repotest "github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/payments"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type marketFixture struct {
	db     *gorm.DB
	hooks  *spyHooks
	access *access.Enforcer

	products  repos.ProductRepo
	orders    repos.OrderRepo
	sequences repos.SequenceRepo
	settings  repos.SettingsRepo
	accounts  repos.AccountRepo
	transfers repos.TransferRepo
	events    repos.EventRepo

	catalog  domainagg.CatalogAggregate
	purchase domainagg.PurchaseAggregate
	delivery domainagg.DeliveryAggregate
	platform domainagg.PlatformAggregate
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	en, err := access.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	f := &marketFixture{
		db:        db,
		hooks:     &spyHooks{},
		access:    en,
		products:  repos.NewProductRepo(db, log),
		orders:    repos.NewOrderRepo(db, log),
		sequences: repos.NewSequenceRepo(db, log),
		settings:  repos.NewSettingsRepo(db, log),
		accounts:  repos.NewAccountRepo(db, log),
		transfers: repos.NewTransferRepo(db, log),
		events:    repos.NewEventRepo(db, log),
	}
	base := BaseDeps{
		DB:       db,
		Log:      log,
		Runner:   NewGormTxRunner(db),
		Hooks:    f.hooks,
		CASGuard: NewCASGuard(db),
		Clock:    func() time.Time { return fixedNow },
	}
	f.catalog = NewCatalogAggregate(CatalogAggregateDeps{
		Base: base, Products: f.products, Sequences: f.sequences, Events: f.events, Access: en,
	})
	f.purchase = NewPurchaseAggregate(PurchaseAggregateDeps{
		Base: base, Products: f.products, Orders: f.orders, Sequences: f.sequences,
		Settings: f.settings, Events: f.events,
		Funds: payments.NewLedgerTransferer(f.accounts, f.transfers, log),
	})
	f.delivery = NewDeliveryAggregate(DeliveryAggregateDeps{
		Base: base, Orders: f.orders, Products: f.products, Events: f.events, Access: en,
	})
	f.platform = NewPlatformAggregate(PlatformAggregateDeps{
		Base: base, Settings: f.settings, Events: f.events, Access: en,
	})
	if _, err := f.platform.EnsureOwner(context.Background(), repotest.Owner); err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}
	return f
}

func (f *marketFixture) dbc() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func (f *marketFixture) list(t *testing.T, price, stock uint64) uint64 {
	t.Helper()
	res, err := f.catalog.List(context.Background(), domainagg.ListProductInput{
		Name:   "widget",
		Price:  price,
		Stock:  stock,
		Seller: repotest.Seller,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return res.ProductID
}

func (f *marketFixture) product(t *testing.T, id uint64) *domain.Product {
	t.Helper()
	p, err := f.products.GetByID(f.dbc(), id)
	if err != nil || p == nil {
		t.Fatalf("GetByID(%d): p=%v err=%v", id, p, err)
	}
	return p
}

func (f *marketFixture) balance(t *testing.T, id domain.Identity) uint64 {
	t.Helper()
	acct, err := f.accounts.GetByIdentity(f.dbc(), id)
	if err != nil {
		t.Fatalf("GetByIdentity(%s): %v", id, err)
	}
	if acct == nil {
		return 0
	}
	return acct.Balance
}

func (f *marketFixture) eventKinds(t *testing.T) []domain.EventKind {
	t.Helper()
	rows, err := f.events.ListAfter(f.dbc(), 0, 500)
	if err != nil {
		t.Fatalf("ListAfter: %v", err)
	}
	out := make([]domain.EventKind, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Kind)
	}
	return out
}

func (f *marketFixture) orderCounter(t *testing.T) uint64 {
	t.Helper()
	n, err := f.sequences.Current(f.dbc(), domain.SequenceOrder)
	if err != nil {
		t.Fatalf("Current(order): %v", err)
	}
	return n
}
