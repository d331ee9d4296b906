package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

const (
	Seller = domain.Identity("0x1111111111111111111111111111111111111111")
	Buyer  = domain.Identity("0x2222222222222222222222222222222222222222")
	Owner  = domain.Identity("0x3333333333333333333333333333333333333333")
	Other  = domain.Identity("0x4444444444444444444444444444444444444444")
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, id uint64, seller domain.Identity, price, stock uint64) *domain.Product {
	tb.Helper()
	p := &domain.Product{
		ID:       id,
		Name:     "widget",
		Price:    price,
		Stock:    stock,
		Seller:   seller,
		IsActive: stock > 0,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, id, productID uint64, buyer domain.Identity, quantity, total uint64) *domain.Order {
	tb.Helper()
	o := &domain.Order{
		ID:          id,
		ProductID:   productID,
		Buyer:       buyer,
		Quantity:    quantity,
		TotalAmount: total,
		Timestamp:   1700000000,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedOwner(tb testing.TB, ctx context.Context, tx *gorm.DB, owner domain.Identity) {
	tb.Helper()
	row := &domain.PlatformSettings{Key: domain.PlatformSettingsKey, Owner: owner}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed platform owner: %v", err)
	}
}

func SeedRejectingAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, id domain.Identity) {
	tb.Helper()
	row := &domain.Account{Identity: id, RejectsFunds: true}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed rejecting account: %v", err)
	}
}
