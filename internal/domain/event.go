package domain

import (
	"time"

	"gorm.io/datatypes"
)

type EventKind string

const (
	EventProductListed        EventKind = "product_listed"
	EventProductPurchased     EventKind = "product_purchased"
	EventOrderDelivered       EventKind = "order_delivered"
	EventPlatformOwnerUpdated EventKind = "platform_owner_updated"
)

// MarketplaceEvent is an outbox row written in the same transaction as the
// state change it describes.
type MarketplaceEvent struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind      EventKind      `gorm:"column:kind;type:varchar(64);not null;index" json:"kind"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (MarketplaceEvent) TableName() string { return "marketplace_event" }

type ProductListed struct {
	ProductID uint64   `json:"product_id"`
	Name      string   `json:"name"`
	Price     uint64   `json:"price"`
	Seller    Identity `json:"seller"`
}

type ProductPurchased struct {
	OrderID   uint64   `json:"order_id"`
	ProductID uint64   `json:"product_id"`
	Buyer     Identity `json:"buyer"`
	Quantity  uint64   `json:"quantity"`
	TotalCost uint64   `json:"total_cost"`
}

type OrderDelivered struct {
	OrderID   uint64   `json:"order_id"`
	ProductID uint64   `json:"product_id"`
	Buyer     Identity `json:"buyer"`
}

type PlatformOwnerUpdated struct {
	Previous Identity `json:"previous"`
	Next     Identity `json:"next"`
}
