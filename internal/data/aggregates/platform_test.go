package aggregates

import (
	"context"
	"testing"

	repotest "github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
)

func TestEnsureOwnerKeepsStoredOwner(t *testing.T) {
	f := newMarketFixture(t)
	got, err := f.platform.EnsureOwner(context.Background(), repotest.Other)
	if err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}
	if got != repotest.Owner {
		t.Fatalf("stored owner replaced: got=%s", got)
	}
	got, err = f.platform.EnsureOwner(context.Background(), domain.ZeroIdentity)
	if err != nil || got != repotest.Owner {
		t.Fatalf("EnsureOwner(zero): got=%s err=%v", got, err)
	}
}

func TestUpdateOwner(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()

	if _, err := f.platform.UpdateOwner(ctx, domainagg.UpdatePlatformOwnerInput{NewOwner: repotest.Other, Caller: repotest.Seller}); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("non-owner: %v", err)
	}
	if _, err := f.platform.UpdateOwner(ctx, domainagg.UpdatePlatformOwnerInput{NewOwner: domain.ZeroIdentity, Caller: repotest.Owner}); !domainagg.IsCode(err, domainagg.CodeInvalidInput) {
		t.Fatalf("zero new owner: %v", err)
	}

	res, err := f.platform.UpdateOwner(ctx, domainagg.UpdatePlatformOwnerInput{NewOwner: repotest.Other, Caller: repotest.Owner})
	if err != nil {
		t.Fatalf("UpdateOwner: %v", err)
	}
	if res.Previous != repotest.Owner || res.Next != repotest.Other || res.Event.Kind != domain.EventPlatformOwnerUpdated {
		t.Fatalf("unexpected result %+v", res)
	}

	// fees now flow to the new owner
	id := f.list(t, 100, 1)
	if _, err := f.purchase.Purchase(ctx, domainagg.PurchaseInput{ProductID: id, Quantity: 1, Buyer: repotest.Buyer, PaidAmount: 100}); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if got := f.balance(t, repotest.Other); got != 2 {
		t.Fatalf("new owner fee: want=2 got=%d", got)
	}
	if got := f.balance(t, repotest.Owner); got != 0 {
		t.Fatalf("previous owner fee: want=0 got=%d", got)
	}
	if _, err := f.platform.UpdateOwner(ctx, domainagg.UpdatePlatformOwnerInput{NewOwner: repotest.Owner, Caller: repotest.Owner}); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("previous owner lost authority: %v", err)
	}
}
