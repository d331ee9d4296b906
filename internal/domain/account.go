package domain

import "time"

// Account is a funds-ledger balance. Rows are created on first credit.
type Account struct {
	Identity     Identity  `gorm:"column:identity;type:varchar(42);primaryKey" json:"identity"`
	Balance      uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	RejectsFunds bool      `gorm:"column:rejects_funds;not null;default:false" json:"rejects_funds"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Account) TableName() string { return "account" }

type TransferKind string

const (
	TransferSellerProceeds TransferKind = "seller_proceeds"
	TransferPlatformFee    TransferKind = "platform_fee"
	TransferRefund         TransferKind = "refund"
)

// Transfer is an append-only record of one disbursement.
type Transfer struct {
	ID        uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint64       `gorm:"column:order_id;not null;index" json:"order_id"`
	Recipient Identity     `gorm:"column:recipient;type:varchar(42);not null;index" json:"recipient"`
	Amount    uint64       `gorm:"column:amount;not null" json:"amount"`
	Kind      TransferKind `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (Transfer) TableName() string { return "transfer" }
