package aggregates

import (
	"context"
	"fmt"

	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/payments"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

type PurchaseAggregateDeps struct {
	Base BaseDeps

	Products  repos.ProductRepo
	Orders    repos.OrderRepo
	Sequences repos.SequenceRepo
	Settings  repos.SettingsRepo
	Events    repos.EventRepo
	Funds     payments.Transferer
}

type purchaseAggregate struct {
	deps PurchaseAggregateDeps
}

func NewPurchaseAggregate(deps PurchaseAggregateDeps) domainagg.PurchaseAggregate {
	deps.Base = deps.Base.withDefaults()
	return &purchaseAggregate{deps: deps}
}

func (a *purchaseAggregate) Contract() domainagg.Contract {
	return domainagg.PurchaseAggregateContract
}

// Purchase validates, decrements stock, records the order and disburses funds
// in one transaction. Any failure, including a refused transfer, rolls back
// every mutation.
func (a *purchaseAggregate) Purchase(ctx context.Context, in domainagg.PurchaseInput) (domainagg.PurchaseResult, error) {
	const op = "Marketplace.Purchase"
	var out domainagg.PurchaseResult

	switch {
	case in.Buyer.IsZero():
		return out, domainagg.NewError(domainagg.CodeUnauthorized, op, "missing buyer identity", nil)
	case in.ProductID == 0:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "invalid product id 0", nil)
	case in.Quantity == 0:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "quantity must be greater than zero", nil)
	case in.PaidAmount > domain.MaxAmount:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, fmt.Sprintf("paid amount must not exceed %d", domain.MaxAmount), nil)
	}
	if a.deps.Products == nil || a.deps.Orders == nil || a.deps.Sequences == nil || a.deps.Settings == nil || a.deps.Funds == nil || a.deps.Events == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "purchase aggregate not configured", nil)
	}

	now := a.deps.Base.now()
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.deps.Products.LockByID(dbc, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domainagg.NewError(domainagg.CodeInvalidInput, op, fmt.Sprintf("unknown product id %d", in.ProductID), nil)
		}
		if !p.IsActive {
			return domainagg.NewError(domainagg.CodeInactiveProduct, op, fmt.Sprintf("product %d is inactive", p.ID), nil)
		}
		if p.Stock < in.Quantity {
			return domainagg.NewError(domainagg.CodeInsufficientStock, op, fmt.Sprintf("stock %d < quantity %d", p.Stock, in.Quantity), nil)
		}
		if p.Seller == in.Buyer {
			return domainagg.NewError(domainagg.CodeSelfPurchase, op, "seller cannot buy own product", nil)
		}
		total, ok := domain.TotalCost(p.Price, in.Quantity)
		if !ok {
			return domainagg.NewError(domainagg.CodeOverflow, op, fmt.Sprintf("price %d * quantity %d exceeds %d", p.Price, in.Quantity, domain.MaxAmount), nil)
		}
		if in.PaidAmount < total {
			return domainagg.NewError(domainagg.CodeInsufficientPayment, op, fmt.Sprintf("paid %d < total cost %d", in.PaidAmount, total), nil)
		}
		split := domain.SplitPayment(total, in.PaidAmount)

		settings, err := a.deps.Settings.Get(dbc)
		if err != nil {
			return err
		}
		if settings == nil || settings.Owner.IsZero() {
			return domainagg.NewError(domainagg.CodeInternal, op, "platform owner not configured", nil)
		}

		left := p.Stock - in.Quantity
		changed, err := a.deps.Base.CASGuard.UpdateGuarded(dbc, domain.Product{}.TableName(), p.ID,
			"stock = ? AND is_active = ?", []any{p.Stock, true},
			map[string]any{
				"stock":      left,
				"is_active":  left > 0,
				"updated_at": now,
			})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(changed, fmt.Sprintf("product %d stock changed concurrently", p.ID)); err != nil {
			return err
		}

		orderID, err := a.deps.Sequences.Next(dbc, domain.SequenceOrder)
		if err != nil {
			return err
		}
		order := &domain.Order{
			ID:          orderID,
			ProductID:   p.ID,
			Buyer:       in.Buyer,
			Quantity:    in.Quantity,
			TotalAmount: total,
			Timestamp:   now.Unix(),
			CreatedAt:   now,
		}
		if err := a.deps.Orders.Create(dbc, order); err != nil {
			return err
		}

		for _, t := range []domain.Transfer{
			{OrderID: orderID, Recipient: p.Seller, Amount: split.SellerAmount, Kind: domain.TransferSellerProceeds},
			{OrderID: orderID, Recipient: settings.Owner, Amount: split.PlatformFee, Kind: domain.TransferPlatformFee},
			{OrderID: orderID, Recipient: in.Buyer, Amount: split.Refund, Kind: domain.TransferRefund},
		} {
			if t.Amount == 0 {
				continue
			}
			if err := a.deps.Funds.Transfer(dbc, t); err != nil {
				return err
			}
		}

		ev, err := recordEvent(dbc, a.deps.Events, now, domain.EventProductPurchased, domain.ProductPurchased{
			OrderID:   orderID,
			ProductID: p.ID,
			Buyer:     in.Buyer,
			Quantity:  in.Quantity,
			TotalCost: total,
		})
		if err != nil {
			return err
		}

		out = domainagg.PurchaseResult{
			OrderID:      orderID,
			ProductID:    p.ID,
			Quantity:     in.Quantity,
			TotalCost:    total,
			PlatformFee:  split.PlatformFee,
			SellerAmount: split.SellerAmount,
			Refund:       split.Refund,
			StockLeft:    left,
			Deactivated:  left == 0,
			Event:        ev,
		}
		return nil
	})
	if err != nil {
		return domainagg.PurchaseResult{}, err
	}
	return out, nil
}
