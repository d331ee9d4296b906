package domain

import "time"

// OrderStatus is derived from IsDelivered; Pending -> Delivered is the only transition.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order records one purchase. Immutable except IsDelivered/DeliveredAt.
type Order struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ProductID   uint64     `gorm:"column:product_id;not null;index" json:"product_id"`
	Buyer       Identity   `gorm:"column:buyer;type:varchar(42);not null;index:idx_order_buyer,priority:1" json:"buyer"`
	Quantity    uint64     `gorm:"column:quantity;not null" json:"quantity"`
	TotalAmount uint64     `gorm:"column:total_amount;not null" json:"total_amount"`
	IsDelivered bool       `gorm:"column:is_delivered;not null;default:false" json:"is_delivered"`
	Timestamp   int64      `gorm:"column:timestamp;not null" json:"timestamp"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (Order) TableName() string { return "product_order" }

func (o *Order) Status() OrderStatus {
	if o != nil && o.IsDelivered {
		return OrderStatusDelivered
	}
	return OrderStatusPending
}
