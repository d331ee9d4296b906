package funds

import (
	"context"
	"testing"

	"github.com/yungbote/marketledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

func TestAccountRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAccountRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if acct, err := repo.GetByIdentity(dbc, testutil.Seller); err != nil || acct != nil {
		t.Fatalf("GetByIdentity before create: acct=%v err=%v", acct, err)
	}
	acct, err := repo.LockOrCreate(dbc, testutil.Seller)
	if err != nil || acct == nil {
		t.Fatalf("LockOrCreate: acct=%v err=%v", acct, err)
	}
	if acct.Balance != 0 || acct.RejectsFunds {
		t.Fatalf("LockOrCreate: unexpected new account %+v", acct)
	}
	if err := repo.SetBalance(dbc, testutil.Seller, 196); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	again, err := repo.LockOrCreate(dbc, testutil.Seller)
	if err != nil || again.Balance != 196 {
		t.Fatalf("LockOrCreate existing: acct=%v err=%v", again, err)
	}

	if err := repo.SetRejectsFunds(dbc, testutil.Buyer, true); err != nil {
		t.Fatalf("SetRejectsFunds: %v", err)
	}
	buyer, err := repo.GetByIdentity(dbc, testutil.Buyer)
	if err != nil || buyer == nil || !buyer.RejectsFunds {
		t.Fatalf("GetByIdentity buyer: acct=%v err=%v", buyer, err)
	}
}

func TestTransferRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTransferRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	rows := []*domain.Transfer{
		{OrderID: 1, Recipient: testutil.Seller, Amount: 196, Kind: domain.TransferSellerProceeds},
		{OrderID: 1, Recipient: testutil.Owner, Amount: 4, Kind: domain.TransferPlatformFee},
		{OrderID: 2, Recipient: testutil.Seller, Amount: 98, Kind: domain.TransferSellerProceeds},
	}
	for _, row := range rows {
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	byOrder, err := repo.ListByOrder(dbc, 1)
	if err != nil || len(byOrder) != 2 {
		t.Fatalf("ListByOrder: len=%d err=%v", len(byOrder), err)
	}
	if byOrder[0].Kind != domain.TransferSellerProceeds || byOrder[1].Amount != 4 {
		t.Fatalf("ListByOrder: unexpected rows %+v %+v", byOrder[0], byOrder[1])
	}
	bySeller, err := repo.ListByRecipient(dbc, testutil.Seller, 10)
	if err != nil || len(bySeller) != 2 || bySeller[0].OrderID != 2 {
		t.Fatalf("ListByRecipient: rows=%v err=%v", bySeller, err)
	}
}
