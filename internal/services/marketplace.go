package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/marketledger-backend/internal/access"
	dataagg "github.com/yungbote/marketledger-backend/internal/data/aggregates"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/observability"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/realtime/bus"
)

const (
	defaultEventPage = 100
	maxEventPage     = 500
)

type ListProductRequest struct {
	Name        string
	Description string
	Price       uint64
	Stock       uint64
	ImageHash   string
}

type MarketplaceService interface {
	ListProduct(ctx context.Context, seller domain.Identity, req ListProductRequest) (uint64, error)
	Purchase(ctx context.Context, buyer domain.Identity, productID, quantity, paidAmount uint64) (domainagg.PurchaseResult, error)
	SetStock(ctx context.Context, caller domain.Identity, productID, stock uint64) (domainagg.SetStockResult, error)
	DeactivateProduct(ctx context.Context, caller domain.Identity, productID uint64) error
	MarkDelivered(ctx context.Context, caller domain.Identity, orderID uint64) error
	UpdatePlatformOwner(ctx context.Context, caller, newOwner domain.Identity) error

	GetProduct(ctx context.Context, productID uint64) (*domain.Product, error)
	GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	GetSellerProducts(ctx context.Context, seller domain.Identity) ([]uint64, error)
	GetBuyerOrders(ctx context.Context, buyer domain.Identity) ([]uint64, error)
	GetProductOrders(ctx context.Context, caller domain.Identity, productID uint64) ([]*domain.Order, error)
	GetPlatformOwner(ctx context.Context) (domain.Identity, error)

	GetBalance(ctx context.Context, id domain.Identity) (uint64, error)
	SetReceiving(ctx context.Context, caller domain.Identity, accept bool) error
	ListEvents(ctx context.Context, afterID uint64, limit int) ([]*domain.MarketplaceEvent, error)
}

type MarketplaceServiceDeps struct {
	Log *logger.Logger

	Products  repos.ProductRepo
	Orders    repos.OrderRepo
	Sequences repos.SequenceRepo
	Settings  repos.SettingsRepo
	Accounts  repos.AccountRepo
	Events    repos.EventRepo

	Catalog  domainagg.CatalogAggregate
	Purchase domainagg.PurchaseAggregate
	Delivery domainagg.DeliveryAggregate
	Platform domainagg.PlatformAggregate

	Access  *access.Enforcer
	Bus     bus.Bus
	Metrics *observability.Metrics
}

type marketplaceService struct {
	deps MarketplaceServiceDeps
	log  *logger.Logger
}

func NewMarketplaceService(deps MarketplaceServiceDeps) MarketplaceService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &marketplaceService{deps: deps, log: log.With("service", "MarketplaceService")}
}

func (s *marketplaceService) ListProduct(ctx context.Context, seller domain.Identity, req ListProductRequest) (uint64, error) {
	res, err := s.deps.Catalog.List(ctx, domainagg.ListProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageHash:   req.ImageHash,
		Seller:      seller,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Product listed", "product_id", res.ProductID, "seller", seller.String())
	s.publish(ctx, res.Event)
	return res.ProductID, nil
}

func (s *marketplaceService) Purchase(ctx context.Context, buyer domain.Identity, productID, quantity, paidAmount uint64) (domainagg.PurchaseResult, error) {
	res, err := s.deps.Purchase.Purchase(ctx, domainagg.PurchaseInput{
		ProductID:  productID,
		Quantity:   quantity,
		Buyer:      buyer,
		PaidAmount: paidAmount,
	})
	if err != nil {
		s.log.Debug("Purchase rejected", "product_id", productID, "buyer", buyer.String(), "code", domainagg.CodeOf(err))
		return res, err
	}
	s.log.Info("Product purchased",
		"order_id", res.OrderID,
		"product_id", res.ProductID,
		"quantity", res.Quantity,
		"total_cost", res.TotalCost,
		"refund", res.Refund,
	)
	s.deps.Metrics.ObservePurchase(res.TotalCost, res.PlatformFee, res.Refund)
	s.publish(ctx, res.Event)
	return res, nil
}

func (s *marketplaceService) SetStock(ctx context.Context, caller domain.Identity, productID, stock uint64) (domainagg.SetStockResult, error) {
	res, err := s.deps.Catalog.SetStock(ctx, domainagg.SetStockInput{ProductID: productID, NewStock: stock, Caller: caller})
	if err != nil {
		return res, err
	}
	if res.Reactivated {
		s.log.Info("Product reactivated", "product_id", productID, "stock", stock)
	}
	return res, nil
}

func (s *marketplaceService) DeactivateProduct(ctx context.Context, caller domain.Identity, productID uint64) error {
	if err := s.deps.Catalog.Deactivate(ctx, domainagg.DeactivateProductInput{ProductID: productID, Caller: caller}); err != nil {
		return err
	}
	s.log.Info("Product deactivated", "product_id", productID)
	return nil
}

func (s *marketplaceService) MarkDelivered(ctx context.Context, caller domain.Identity, orderID uint64) error {
	res, err := s.deps.Delivery.MarkDelivered(ctx, domainagg.MarkDeliveredInput{OrderID: orderID, Caller: caller})
	if err != nil {
		return err
	}
	s.log.Info("Order delivered", "order_id", res.OrderID, "product_id", res.ProductID)
	s.publish(ctx, res.Event)
	return nil
}

func (s *marketplaceService) UpdatePlatformOwner(ctx context.Context, caller, newOwner domain.Identity) error {
	res, err := s.deps.Platform.UpdateOwner(ctx, domainagg.UpdatePlatformOwnerInput{NewOwner: newOwner, Caller: caller})
	if err != nil {
		return err
	}
	s.log.Info("Platform owner updated", "previous", res.Previous.String(), "next", res.Next.String())
	s.publish(ctx, res.Event)
	return nil
}

func (s *marketplaceService) GetProduct(ctx context.Context, productID uint64) (*domain.Product, error) {
	const op = "Marketplace.GetProduct"
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireAssigned(dbc, op, domain.SequenceProduct, "product", productID); err != nil {
		return nil, err
	}
	p, err := s.deps.Products.GetByID(dbc, productID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if p == nil {
		return nil, notFound(op, "product", productID)
	}
	return p, nil
}

func (s *marketplaceService) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	const op = "Marketplace.GetOrder"
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireAssigned(dbc, op, domain.SequenceOrder, "order", orderID); err != nil {
		return nil, err
	}
	o, err := s.deps.Orders.GetByID(dbc, orderID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if o == nil {
		return nil, notFound(op, "order", orderID)
	}
	return o, nil
}

func (s *marketplaceService) GetSellerProducts(ctx context.Context, seller domain.Identity) ([]uint64, error) {
	const op = "Marketplace.GetSellerProducts"
	if seller.IsZero() {
		return []uint64{}, nil
	}
	ids, err := s.deps.Products.ListIDsBySeller(dbctx.Context{Ctx: ctx}, seller)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return nonNil(ids), nil
}

func (s *marketplaceService) GetBuyerOrders(ctx context.Context, buyer domain.Identity) ([]uint64, error) {
	const op = "Marketplace.GetBuyerOrders"
	if buyer.IsZero() {
		return []uint64{}, nil
	}
	ids, err := s.deps.Orders.ListIDsByBuyer(dbctx.Context{Ctx: ctx}, buyer)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return nonNil(ids), nil
}

// GetProductOrders lists a product's orders for its seller.
func (s *marketplaceService) GetProductOrders(ctx context.Context, caller domain.Identity, productID uint64) ([]*domain.Order, error) {
	const op = "Marketplace.GetProductOrders"
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Access.RequireSeller(op, caller, p); err != nil {
		return nil, err
	}
	rows, err := s.deps.Orders.ListByProduct(dbctx.Context{Ctx: ctx}, productID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if rows == nil {
		rows = []*domain.Order{}
	}
	return rows, nil
}

func (s *marketplaceService) GetPlatformOwner(ctx context.Context) (domain.Identity, error) {
	const op = "Marketplace.GetPlatformOwner"
	row, err := s.deps.Settings.Get(dbctx.Context{Ctx: ctx})
	if err != nil {
		return domain.ZeroIdentity, dataagg.MapError(op, err)
	}
	if row == nil {
		return domain.ZeroIdentity, domainagg.NewError(domainagg.CodeNotFound, op, "platform owner not configured", nil)
	}
	return row.Owner, nil
}

func (s *marketplaceService) GetBalance(ctx context.Context, id domain.Identity) (uint64, error) {
	const op = "Marketplace.GetBalance"
	if id.IsZero() {
		return 0, domainagg.NewError(domainagg.CodeInvalidInput, op, "identity must be non-zero", nil)
	}
	acct, err := s.deps.Accounts.GetByIdentity(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return 0, dataagg.MapError(op, err)
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Balance, nil
}

func (s *marketplaceService) SetReceiving(ctx context.Context, caller domain.Identity, accept bool) error {
	const op = "Marketplace.SetReceiving"
	if caller.IsZero() {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "missing caller identity", nil)
	}
	if err := s.deps.Accounts.SetRejectsFunds(dbctx.Context{Ctx: ctx}, caller, !accept); err != nil {
		return dataagg.MapError(op, err)
	}
	s.log.Info("Account receiving updated", "identity", caller.String(), "accept", accept)
	return nil
}

func (s *marketplaceService) ListEvents(ctx context.Context, afterID uint64, limit int) ([]*domain.MarketplaceEvent, error) {
	const op = "Marketplace.ListEvents"
	if limit <= 0 {
		limit = defaultEventPage
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}
	rows, err := s.deps.Events.ListAfter(dbctx.Context{Ctx: ctx}, afterID, limit)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if rows == nil {
		rows = []*domain.MarketplaceEvent{}
	}
	return rows, nil
}

func (s *marketplaceService) requireAssigned(dbc dbctx.Context, op, counter, what string, id uint64) error {
	if id == 0 {
		return notFound(op, what, id)
	}
	current, err := s.deps.Sequences.Current(dbc, counter)
	if err != nil {
		return dataagg.MapError(op, err)
	}
	if id > current {
		return notFound(op, what, id)
	}
	return nil
}

// publish runs after commit; a failed publish is logged and never fails the call.
// The event stays in the outbox for readers of ListEvents.
func (s *marketplaceService) publish(ctx context.Context, ev domain.MarketplaceEvent) {
	if ev.ID == 0 {
		return
	}
	kind := string(ev.Kind)
	if s.deps.Bus == nil {
		s.deps.Metrics.IncEventPublish(kind, "skipped")
		return
	}
	if err := s.deps.Bus.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("Event publish failed", "event_id", ev.ID, "kind", kind, "error", err)
		s.deps.Metrics.IncEventPublish(kind, "error")
		return
	}
	s.deps.Metrics.IncEventPublish(kind, "ok")
}

func notFound(op, what string, id uint64) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("%s not found: %d", strings.TrimSpace(what), id), nil)
}

func nonNil(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
