package domain

import "time"

const (
	SequenceProduct = "product"
	SequenceOrder   = "order"
)

// Sequence is a monotonic id source. Value is the last id handed out.
type Sequence struct {
	Name      string    `gorm:"column:name;type:varchar(32);primaryKey" json:"name"`
	Value     uint64    `gorm:"column:value;not null;default:0" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Sequence) TableName() string { return "sequence" }

const PlatformSettingsKey = "platform"

// PlatformSettings is a single row holding the fee recipient.
type PlatformSettings struct {
	Key       string    `gorm:"column:name;type:varchar(32);primaryKey" json:"-"`
	Owner     Identity  `gorm:"column:owner;type:varchar(42);not null" json:"owner"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PlatformSettings) TableName() string { return "platform_settings" }
