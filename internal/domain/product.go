package domain

import "time"

// Product is a catalog listing. ID values come from the "product" sequence.
type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       uint64    `gorm:"column:price;not null" json:"price"`
	Stock       uint64    `gorm:"column:stock;not null" json:"stock"`
	ImageHash   string    `gorm:"column:image_hash" json:"image_hash"`
	Seller      Identity  `gorm:"column:seller;type:varchar(42);not null;index:idx_product_seller,priority:1" json:"seller"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// CanSupply reports whether the listing can satisfy quantity right now.
func (p *Product) CanSupply(quantity uint64) bool {
	return p != nil && p.IsActive && p.Stock >= quantity
}
