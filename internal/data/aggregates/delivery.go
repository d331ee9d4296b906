package aggregates

import (
	"context"
	"fmt"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

type DeliveryAggregateDeps struct {
	Base BaseDeps

	Orders   repos.OrderRepo
	Products repos.ProductRepo
	Events   repos.EventRepo
	Access   *access.Enforcer
}

type deliveryAggregate struct {
	deps DeliveryAggregateDeps
}

func NewDeliveryAggregate(deps DeliveryAggregateDeps) domainagg.DeliveryAggregate {
	deps.Base = deps.Base.withDefaults()
	return &deliveryAggregate{deps: deps}
}

func (a *deliveryAggregate) Contract() domainagg.Contract {
	return domainagg.DeliveryAggregateContract
}

func (a *deliveryAggregate) MarkDelivered(ctx context.Context, in domainagg.MarkDeliveredInput) (domainagg.MarkDeliveredResult, error) {
	const op = "Marketplace.Delivery.MarkDelivered"
	var out domainagg.MarkDeliveredResult

	if in.OrderID == 0 {
		return out, domainagg.NewError(domainagg.CodeNotFound, op, "order not found: 0", nil)
	}
	if a.deps.Orders == nil || a.deps.Products == nil || a.deps.Events == nil || a.deps.Access == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "delivery aggregate not configured", nil)
	}

	now := a.deps.Base.now()
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		o, err := a.deps.Orders.GetByID(dbc, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("order not found: %d", in.OrderID), nil)
		}
		p, err := a.deps.Products.GetByID(dbc, o.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return InvariantError(fmt.Sprintf("order %d references missing product %d", o.ID, o.ProductID))
		}
		if err := a.deps.Access.RequireSeller(op, in.Caller, p); err != nil {
			return err
		}
		if o.IsDelivered {
			return domainagg.NewError(domainagg.CodeAlreadyDelivered, op, fmt.Sprintf("order %d already delivered", o.ID), nil)
		}

		changed, err := a.deps.Base.CASGuard.UpdateGuarded(dbc, domain.Order{}.TableName(), o.ID,
			"is_delivered = ?", []any{false},
			map[string]any{
				"is_delivered": true,
				"delivered_at": now,
			})
		if err != nil {
			return err
		}
		if !changed {
			return domainagg.NewError(domainagg.CodeAlreadyDelivered, op, fmt.Sprintf("order %d already delivered", o.ID), nil)
		}

		ev, err := recordEvent(dbc, a.deps.Events, now, domain.EventOrderDelivered, domain.OrderDelivered{
			OrderID:   o.ID,
			ProductID: o.ProductID,
			Buyer:     o.Buyer,
		})
		if err != nil {
			return err
		}
		out = domainagg.MarkDeliveredResult{
			OrderID:   o.ID,
			ProductID: o.ProductID,
			Buyer:     o.Buyer,
			Event:     ev,
		}
		return nil
	})
	return out, err
}
