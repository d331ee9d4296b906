package aggregates

import (
	"context"
	"testing"

	"github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := MapError("op", RequireCASSuccess(false, "stale")); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateGuardedOnlyWhileGuardHolds(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	testutil.SeedProduct(t, ctx, tx, 1, testutil.Seller, 100, 2)

	g := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	ok, err := g.UpdateGuarded(dbc, "product", 1, "stock = ? AND is_active = ?", []any{uint64(2), true}, map[string]any{"stock": uint64(1)})
	if err != nil || !ok {
		t.Fatalf("first update: ok=%v err=%v", ok, err)
	}
	ok, err = g.UpdateGuarded(dbc, "product", 1, "stock = ? AND is_active = ?", []any{uint64(2), true}, map[string]any{"stock": uint64(0)})
	if err != nil || ok {
		t.Fatalf("stale guard must not apply: ok=%v err=%v", ok, err)
	}
	if _, err := g.UpdateGuarded(dbc, "product", 0, "stock = ?", []any{1}, map[string]any{"stock": 0}); !domainagg.IsCode(MapError("op", err), domainagg.CodeInvalidInput) {
		t.Fatalf("expected invalid_input for zero id, got %v", err)
	}
}
