package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yungbote/marketledger-backend/internal/access"
	dataagg "github.com/yungbote/marketledger-backend/internal/data/aggregates"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	repotest "github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/payments"
)

type recordingBus struct {
	mu     sync.Mutex
	events []domain.MarketplaceEvent
	fail   error
}

func (b *recordingBus) Publish(_ context.Context, ev domain.MarketplaceEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) StartForwarder(context.Context, func(domain.MarketplaceEvent)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) kinds() []domain.EventKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.EventKind, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Kind)
	}
	return out
}

func newTestService(t *testing.T) (MarketplaceService, *recordingBus, *observability.Metrics) {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	en, err := access.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	products := repos.NewProductRepo(db, log)
	orders := repos.NewOrderRepo(db, log)
	sequences := repos.NewSequenceRepo(db, log)
	settings := repos.NewSettingsRepo(db, log)
	accounts := repos.NewAccountRepo(db, log)
	transfers := repos.NewTransferRepo(db, log)
	events := repos.NewEventRepo(db, log)
	base := dataagg.BaseDeps{DB: db, Log: log}

	platform := dataagg.NewPlatformAggregate(dataagg.PlatformAggregateDeps{Base: base, Settings: settings, Events: events, Access: en})
	if _, err := platform.EnsureOwner(context.Background(), repotest.Owner); err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}

	b := &recordingBus{}
	m := observability.NewMetrics()
	svc := NewMarketplaceService(MarketplaceServiceDeps{
		Log:       log,
		Products:  products,
		Orders:    orders,
		Sequences: sequences,
		Settings:  settings,
		Accounts:  accounts,
		Events:    events,
		Catalog: dataagg.NewCatalogAggregate(dataagg.CatalogAggregateDeps{
			Base: base, Products: products, Sequences: sequences, Events: events, Access: en,
		}),
		Purchase: dataagg.NewPurchaseAggregate(dataagg.PurchaseAggregateDeps{
			Base: base, Products: products, Orders: orders, Sequences: sequences, Settings: settings, Events: events,
			Funds: payments.NewLedgerTransferer(accounts, transfers, log),
		}),
		Delivery: dataagg.NewDeliveryAggregate(dataagg.DeliveryAggregateDeps{
			Base: base, Orders: orders, Products: products, Events: events, Access: en,
		}),
		Platform: platform,
		Access:   en,
		Bus:      b,
		Metrics:  m,
	})
	return svc, b, m
}

func listWidget(t *testing.T, svc MarketplaceService, price, stock uint64) uint64 {
	t.Helper()
	id, err := svc.ListProduct(context.Background(), repotest.Seller, ListProductRequest{Name: "widget", Price: price, Stock: stock})
	if err != nil {
		t.Fatalf("ListProduct: %v", err)
	}
	return id
}

func TestMarketplaceServicePurchaseFlow(t *testing.T) {
	svc, b, _ := newTestService(t)
	ctx := context.Background()
	id := listWidget(t, svc, 100, 5)

	res, err := svc.Purchase(ctx, repotest.Buyer, id, 2, 250)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if res.Refund != 50 || res.OrderID != 1 {
		t.Fatalf("result: %+v", res)
	}
	if err := svc.MarkDelivered(ctx, repotest.Seller, res.OrderID); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}

	o, err := svc.GetOrder(ctx, res.OrderID)
	if err != nil || !o.IsDelivered {
		t.Fatalf("GetOrder: o=%+v err=%v", o, err)
	}
	orders, err := svc.GetBuyerOrders(ctx, repotest.Buyer)
	if err != nil || len(orders) != 1 || orders[0] != res.OrderID {
		t.Fatalf("GetBuyerOrders: %v err=%v", orders, err)
	}
	if bal, err := svc.GetBalance(ctx, repotest.Seller); err != nil || bal != 196 {
		t.Fatalf("seller balance: %d err=%v", bal, err)
	}

	kinds := b.kinds()
	want := []domain.EventKind{domain.EventProductListed, domain.EventProductPurchased, domain.EventOrderDelivered}
	if len(kinds) != len(want) {
		t.Fatalf("published: %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("published[%d]: want=%s got=%s", i, want[i], kinds[i])
		}
	}
}

func TestMarketplaceServiceFailedPurchasePublishesNothing(t *testing.T) {
	svc, b, _ := newTestService(t)
	id := listWidget(t, svc, 100, 5)

	if _, err := svc.Purchase(context.Background(), repotest.Buyer, id, 2, 100); !domainagg.IsCode(err, domainagg.CodeInsufficientPayment) {
		t.Fatalf("expected insufficient_payment, got %v", err)
	}
	if kinds := b.kinds(); len(kinds) != 1 {
		t.Fatalf("published after failed purchase: %v", kinds)
	}
}

func TestMarketplaceServicePublishFailureKeepsCommit(t *testing.T) {
	svc, b, m := newTestService(t)
	b.fail = errors.New("bus down")

	id := listWidget(t, svc, 10, 1)
	p, err := svc.GetProduct(context.Background(), id)
	if err != nil || p == nil {
		t.Fatalf("committed product missing: p=%v err=%v", p, err)
	}
	evs, err := svc.ListEvents(context.Background(), 0, 0)
	if err != nil || len(evs) != 1 || evs[0].Kind != domain.EventProductListed {
		t.Fatalf("outbox: %v err=%v", evs, err)
	}
	if got := m.EventPublishCount(string(domain.EventProductListed), "error"); got != 1 {
		t.Fatalf("publish error counter: %v", got)
	}
}

func TestMarketplaceServiceReadsOutOfRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	listWidget(t, svc, 10, 1)

	for _, id := range []uint64{0, 2} {
		if _, err := svc.GetProduct(ctx, id); !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("GetProduct(%d): %v", id, err)
		}
		if _, err := svc.GetOrder(ctx, id); !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("GetOrder(%d): %v", id, err)
		}
	}
	ids, err := svc.GetSellerProducts(ctx, repotest.Other)
	if err != nil || ids == nil || len(ids) != 0 {
		t.Fatalf("empty seller index: %v err=%v", ids, err)
	}
}

func TestMarketplaceServiceSetReceivingBlocksRefund(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := listWidget(t, svc, 100, 5)

	if err := svc.SetReceiving(ctx, repotest.Buyer, false); err != nil {
		t.Fatalf("SetReceiving: %v", err)
	}
	if _, err := svc.Purchase(ctx, repotest.Buyer, id, 1, 150); !domainagg.IsCode(err, domainagg.CodeTransferFailed) {
		t.Fatalf("expected transfer_failed, got %v", err)
	}
	if err := svc.SetReceiving(ctx, repotest.Buyer, true); err != nil {
		t.Fatalf("SetReceiving: %v", err)
	}
	if _, err := svc.Purchase(ctx, repotest.Buyer, id, 1, 150); err != nil {
		t.Fatalf("Purchase after re-enabling: %v", err)
	}
	if err := svc.SetReceiving(ctx, domain.ZeroIdentity, true); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("zero caller: %v", err)
	}
}

func TestMarketplaceServiceProductOrdersSellerOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := listWidget(t, svc, 10, 5)
	if _, err := svc.Purchase(ctx, repotest.Buyer, id, 1, 10); err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	rows, err := svc.GetProductOrders(ctx, repotest.Seller, id)
	if err != nil || len(rows) != 1 || rows[0].Buyer != repotest.Buyer {
		t.Fatalf("GetProductOrders: %v err=%v", rows, err)
	}
	if _, err := svc.GetProductOrders(ctx, repotest.Buyer, id); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("buyer must not read product orders: %v", err)
	}
}

func TestMarketplaceServicePlatformOwner(t *testing.T) {
	svc, b, _ := newTestService(t)
	ctx := context.Background()

	owner, err := svc.GetPlatformOwner(ctx)
	if err != nil || owner != repotest.Owner {
		t.Fatalf("GetPlatformOwner: %s err=%v", owner, err)
	}
	if err := svc.UpdatePlatformOwner(ctx, repotest.Owner, repotest.Other); err != nil {
		t.Fatalf("UpdatePlatformOwner: %v", err)
	}
	if owner, _ := svc.GetPlatformOwner(ctx); owner != repotest.Other {
		t.Fatalf("owner after update: %s", owner)
	}
	if kinds := b.kinds(); len(kinds) != 1 || kinds[0] != domain.EventPlatformOwnerUpdated {
		t.Fatalf("published: %v", kinds)
	}
}
