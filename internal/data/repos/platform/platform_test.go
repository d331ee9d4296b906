package platform

import (
	"context"
	"testing"

	"github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

func TestSequenceRepoIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSequenceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if cur, err := repo.Current(dbc, domain.SequenceProduct); err != nil || cur != 0 {
		t.Fatalf("Current before Next: cur=%d err=%v", cur, err)
	}
	for want := uint64(1); want <= 3; want++ {
		got, err := repo.Next(dbc, domain.SequenceProduct)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Fatalf("Next: want=%d got=%d", want, got)
		}
	}
	if got, err := repo.Next(dbc, domain.SequenceOrder); err != nil || got != 1 {
		t.Fatalf("order sequence should be independent: got=%d err=%v", got, err)
	}
	if cur, err := repo.Current(dbc, domain.SequenceProduct); err != nil || cur != 3 {
		t.Fatalf("Current: want=3 got=%d err=%v", cur, err)
	}
}

func TestSequenceRollbackReturnsID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSequenceRepo(db, testutil.Logger(t))

	tx := db.Begin()
	if _, err := repo.Next(dbctx.Context{Ctx: ctx, Tx: tx}, domain.SequenceOrder); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := tx.Rollback().Error; err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if cur, err := repo.Current(dbctx.Context{Ctx: ctx}, domain.SequenceOrder); err != nil || cur != 0 {
		t.Fatalf("Current after rollback: want=0 got=%d err=%v", cur, err)
	}
}

func TestSettingsRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSettingsRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if row, err := repo.Get(dbc); err != nil || row != nil {
		t.Fatalf("Get before seed: row=%v err=%v", row, err)
	}
	if err := repo.CreateIfAbsent(dbc, testutil.Owner); err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if err := repo.CreateIfAbsent(dbc, testutil.Other); err != nil {
		t.Fatalf("CreateIfAbsent (second): %v", err)
	}
	row, err := repo.Lock(dbc)
	if err != nil || row == nil || row.Owner != testutil.Owner {
		t.Fatalf("Lock: row=%v err=%v", row, err)
	}
	if err := repo.UpdateOwner(dbc, testutil.Other); err != nil {
		t.Fatalf("UpdateOwner: %v", err)
	}
	if row, err := repo.Get(dbc); err != nil || row == nil || row.Owner != testutil.Other {
		t.Fatalf("Get after update: row=%v err=%v", row, err)
	}
}
