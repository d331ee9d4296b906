// Package payments moves value from a purchase to its recipients.
package payments

import (
	"errors"
	"fmt"

	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

// ErrRecipientRejects is the cause behind TransferFailed when an account has
// opted out of receiving funds.
var ErrRecipientRejects = errors.New("recipient rejects funds")

// Transferer credits one recipient synchronously inside the caller's
// transaction. Any error must abort that transaction.
type Transferer interface {
	Transfer(dbc dbctx.Context, t domain.Transfer) error
}

type ledgerTransferer struct {
	accounts  repos.AccountRepo
	transfers repos.TransferRepo
	log       *logger.Logger
}

func NewLedgerTransferer(accounts repos.AccountRepo, transfers repos.TransferRepo, baseLog *logger.Logger) Transferer {
	return &ledgerTransferer{
		accounts:  accounts,
		transfers: transfers,
		log:       baseLog.With("component", "LedgerTransferer"),
	}
}

func (l *ledgerTransferer) Transfer(dbc dbctx.Context, t domain.Transfer) error {
	const op = "payments.Transfer"
	if t.Recipient.IsZero() {
		return domainagg.NewError(domainagg.CodeTransferFailed, op, "recipient is the zero identity", nil)
	}
	if t.Amount == 0 {
		return nil
	}
	acct, err := l.accounts.LockOrCreate(dbc, t.Recipient)
	if err != nil {
		return err
	}
	if acct.RejectsFunds {
		return domainagg.NewError(domainagg.CodeTransferFailed, op,
			fmt.Sprintf("%s transfer of %d to %s refused", t.Kind, t.Amount, t.Recipient), ErrRecipientRejects)
	}
	if t.Amount > domain.MaxAmount-acct.Balance {
		return domainagg.NewError(domainagg.CodeOverflow, op,
			fmt.Sprintf("balance of %s would exceed %d", t.Recipient, domain.MaxAmount), nil)
	}
	if err := l.accounts.SetBalance(dbc, t.Recipient, acct.Balance+t.Amount); err != nil {
		return err
	}
	row := t
	if err := l.transfers.Create(dbc, &row); err != nil {
		return err
	}
	l.log.Debug("funds transferred", "order_id", t.OrderID, "recipient", t.Recipient, "amount", t.Amount, "kind", t.Kind)
	return nil
}
