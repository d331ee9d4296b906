package aggregates

import (
	"context"
	"testing"

	repotest "github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
)

func TestMarkDelivered(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	id := f.list(t, 100, 5)
	bought, err := f.purchase.Purchase(ctx, domainagg.PurchaseInput{ProductID: id, Quantity: 1, Buyer: repotest.Buyer, PaidAmount: 100})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if _, err := f.delivery.MarkDelivered(ctx, domainagg.MarkDeliveredInput{OrderID: bought.OrderID, Caller: repotest.Buyer}); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("buyer cannot deliver: %v", err)
	}

	res, err := f.delivery.MarkDelivered(ctx, domainagg.MarkDeliveredInput{OrderID: bought.OrderID, Caller: repotest.Seller})
	if err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	if res.OrderID != bought.OrderID || res.Buyer != repotest.Buyer || res.Event.Kind != domain.EventOrderDelivered {
		t.Fatalf("unexpected result %+v", res)
	}
	o, err := f.orders.GetByID(f.dbc(), bought.OrderID)
	if err != nil || o == nil {
		t.Fatalf("GetByID: o=%v err=%v", o, err)
	}
	if !o.IsDelivered || o.DeliveredAt == nil || o.Status() != domain.OrderStatusDelivered {
		t.Fatalf("order not delivered: %+v", o)
	}

	if _, err := f.delivery.MarkDelivered(ctx, domainagg.MarkDeliveredInput{OrderID: bought.OrderID, Caller: repotest.Seller}); !domainagg.IsCode(err, domainagg.CodeAlreadyDelivered) {
		t.Fatalf("repeat delivery: %v", err)
	}
	kinds := f.eventKinds(t)
	if len(kinds) != 3 || kinds[2] != domain.EventOrderDelivered {
		t.Fatalf("events: %v", kinds)
	}
}

func TestMarkDeliveredUnknownOrder(t *testing.T) {
	f := newMarketFixture(t)
	for _, id := range []uint64{0, 7} {
		if _, err := f.delivery.MarkDelivered(context.Background(), domainagg.MarkDeliveredInput{OrderID: id, Caller: repotest.Seller}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("order %d: %v", id, err)
		}
	}
}
