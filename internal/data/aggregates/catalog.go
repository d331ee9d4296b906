package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

type CatalogAggregateDeps struct {
	Base BaseDeps

	Products  repos.ProductRepo
	Sequences repos.SequenceRepo
	Events    repos.EventRepo
	Access    *access.Enforcer
}

type catalogAggregate struct {
	deps CatalogAggregateDeps
}

func NewCatalogAggregate(deps CatalogAggregateDeps) domainagg.CatalogAggregate {
	deps.Base = deps.Base.withDefaults()
	return &catalogAggregate{deps: deps}
}

func (a *catalogAggregate) Contract() domainagg.Contract {
	return domainagg.CatalogAggregateContract
}

func (a *catalogAggregate) List(ctx context.Context, in domainagg.ListProductInput) (domainagg.ListProductResult, error) {
	const op = "Marketplace.Catalog.List"
	var out domainagg.ListProductResult

	name := strings.TrimSpace(in.Name)
	switch {
	case in.Seller.IsZero():
		return out, domainagg.NewError(domainagg.CodeUnauthorized, op, "missing seller identity", nil)
	case name == "":
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "name must not be empty", nil)
	case in.Price == 0:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "price must be greater than zero", nil)
	case in.Stock == 0:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "stock must be greater than zero", nil)
	case in.Price > domain.MaxAmount || in.Stock > domain.MaxAmount:
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, fmt.Sprintf("price and stock must not exceed %d", domain.MaxAmount), nil)
	}
	if a.deps.Products == nil || a.deps.Sequences == nil || a.deps.Events == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "catalog aggregate repos not configured", nil)
	}

	now := a.deps.Base.now()
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		id, err := a.deps.Sequences.Next(dbc, domain.SequenceProduct)
		if err != nil {
			return err
		}
		row := &domain.Product{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			Price:       in.Price,
			Stock:       in.Stock,
			ImageHash:   strings.TrimSpace(in.ImageHash),
			Seller:      in.Seller,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := a.deps.Products.Create(dbc, row); err != nil {
			return err
		}
		ev, err := recordEvent(dbc, a.deps.Events, now, domain.EventProductListed, domain.ProductListed{
			ProductID: id,
			Name:      row.Name,
			Price:     row.Price,
			Seller:    row.Seller,
		})
		if err != nil {
			return err
		}
		out = domainagg.ListProductResult{ProductID: id, Event: ev}
		return nil
	})
	return out, err
}

func (a *catalogAggregate) SetStock(ctx context.Context, in domainagg.SetStockInput) (domainagg.SetStockResult, error) {
	const op = "Marketplace.Catalog.SetStock"
	var out domainagg.SetStockResult

	if in.ProductID == 0 {
		return out, domainagg.NewError(domainagg.CodeNotFound, op, "product not found: 0", nil)
	}
	if in.NewStock > domain.MaxAmount {
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, fmt.Sprintf("stock must not exceed %d", domain.MaxAmount), nil)
	}
	if a.deps.Products == nil || a.deps.Access == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "catalog aggregate not configured", nil)
	}

	now := a.deps.Base.now()
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.deps.Products.LockByID(dbc, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("product not found: %d", in.ProductID), nil)
		}
		if err := a.deps.Access.RequireSeller(op, in.Caller, p); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"stock":      in.NewStock,
			"updated_at": now,
		}
		reactivate := in.NewStock > 0 && !p.IsActive
		if reactivate {
			updates["is_active"] = true
		}
		if err := a.deps.Products.UpdateFields(dbc, p.ID, updates); err != nil {
			return err
		}
		out = domainagg.SetStockResult{
			ProductID:   p.ID,
			Stock:       in.NewStock,
			IsActive:    p.IsActive || reactivate,
			Reactivated: reactivate,
		}
		return nil
	})
	return out, err
}

func (a *catalogAggregate) Deactivate(ctx context.Context, in domainagg.DeactivateProductInput) error {
	const op = "Marketplace.Catalog.Deactivate"
	if in.ProductID == 0 {
		return domainagg.NewError(domainagg.CodeNotFound, op, "product not found: 0", nil)
	}
	if a.deps.Products == nil || a.deps.Access == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "catalog aggregate not configured", nil)
	}

	now := a.deps.Base.now()
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.deps.Products.LockByID(dbc, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("product not found: %d", in.ProductID), nil)
		}
		if err := a.deps.Access.RequireActiveSeller(op, in.Caller, p); err != nil {
			return err
		}
		return a.deps.Products.UpdateFields(dbc, p.ID, map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	})
}
