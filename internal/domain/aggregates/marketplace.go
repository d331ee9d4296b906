package aggregates

import (
	"context"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

var CatalogAggregateContract = Contract{
	Name:   "Marketplace.CatalogAggregate",
	Writes: []string{"product", "sequence", "marketplace_event"},
	Notes:  "Owns listing, stock and activation writes against the product sequence and seller checks.",
}

// CatalogAggregate owns product lifecycle writes.
//
// Write method failures return *aggregates.Error with codes:
// CodeInvalidInput, CodeNotFound, CodeUnauthorized, CodeInactiveProduct, CodeRetryable, CodeInternal.
type CatalogAggregate interface {
	Aggregate

	// List stores a new active product under the next product id.
	List(ctx context.Context, in ListProductInput) (ListProductResult, error)

	// SetStock overwrites stock. Seller only; reactivates when newStock > 0.
	SetStock(ctx context.Context, in SetStockInput) (SetStockResult, error)

	// Deactivate marks an active product inactive. Active seller only.
	Deactivate(ctx context.Context, in DeactivateProductInput) error
}

type ListProductInput struct {
	Name        string
	Description string
	Price       uint64
	Stock       uint64
	ImageHash   string
	Seller      domain.Identity
}

type ListProductResult struct {
	ProductID uint64
	Event     domain.MarketplaceEvent
}

type SetStockInput struct {
	ProductID uint64
	NewStock  uint64
	Caller    domain.Identity
}

type SetStockResult struct {
	ProductID   uint64
	Stock       uint64
	IsActive    bool
	Reactivated bool
}

type DeactivateProductInput struct {
	ProductID uint64
	Caller    domain.Identity
}

var PurchaseAggregateContract = Contract{
	Name:   "Marketplace.PurchaseAggregate",
	Writes: []string{"product", "product_order", "sequence", "account", "transfer", "marketplace_event"},
	Notes:  "Stock decrement, order creation and disbursement commit together or not at all.",
}

// PurchaseAggregate owns the purchase-and-disbursement workflow.
//
// Write method failures return *aggregates.Error with codes:
// CodeInvalidInput, CodeInactiveProduct, CodeInsufficientStock, CodeSelfPurchase,
// CodeOverflow, CodeInsufficientPayment, CodeTransferFailed, CodeRetryable, CodeInternal.
type PurchaseAggregate interface {
	Aggregate

	Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error)
}

type PurchaseInput struct {
	ProductID  uint64
	Quantity   uint64
	Buyer      domain.Identity
	PaidAmount uint64
}

type PurchaseResult struct {
	OrderID      uint64
	ProductID    uint64
	Quantity     uint64
	TotalCost    uint64
	PlatformFee  uint64
	SellerAmount uint64
	Refund       uint64
	StockLeft    uint64
	Deactivated  bool
	Event        domain.MarketplaceEvent
}

var DeliveryAggregateContract = Contract{
	Name:   "Marketplace.DeliveryAggregate",
	Writes: []string{"product_order", "marketplace_event"},
	Notes:  "Single Pending -> Delivered transition, seller attested, compare-and-set guarded.",
}

// DeliveryAggregate owns the order delivery transition.
//
// Write method failures return *aggregates.Error with codes:
// CodeNotFound, CodeUnauthorized, CodeAlreadyDelivered, CodeRetryable, CodeInternal.
type DeliveryAggregate interface {
	Aggregate

	MarkDelivered(ctx context.Context, in MarkDeliveredInput) (MarkDeliveredResult, error)
}

type MarkDeliveredInput struct {
	OrderID uint64
	Caller  domain.Identity
}

type MarkDeliveredResult struct {
	OrderID   uint64
	ProductID uint64
	Buyer     domain.Identity
	Event     domain.MarketplaceEvent
}

var PlatformAggregateContract = Contract{
	Name:   "Marketplace.PlatformAggregate",
	Writes: []string{"platform_settings", "marketplace_event"},
	Notes:  "Owns the fee recipient identity. Owner-only transfer of ownership.",
}

// PlatformAggregate owns platform ownership.
//
// Write method failures return *aggregates.Error with codes:
// CodeInvalidInput, CodeUnauthorized, CodeRetryable, CodeInternal.
type PlatformAggregate interface {
	Aggregate

	// EnsureOwner seeds the owner row when none exists. Returns the effective owner.
	EnsureOwner(ctx context.Context, seed domain.Identity) (domain.Identity, error)

	UpdateOwner(ctx context.Context, in UpdatePlatformOwnerInput) (UpdatePlatformOwnerResult, error)
}

type UpdatePlatformOwnerInput struct {
	NewOwner domain.Identity
	Caller   domain.Identity
}

type UpdatePlatformOwnerResult struct {
	Previous domain.Identity
	Next     domain.Identity
	Event    domain.MarketplaceEvent
}
