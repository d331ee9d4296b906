package domain

import (
	"math"
	"math/bits"
)

// FeePercent is the platform's cut of every purchase.
const FeePercent = 2

// MaxAmount bounds every stored amount, price and stock value. Storage columns
// are signed 64-bit.
const MaxAmount uint64 = math.MaxInt64

// TotalCost returns price*quantity, ok=false when it overflows MaxAmount.
func TotalCost(price, quantity uint64) (uint64, bool) {
	hi, lo := bits.Mul64(price, quantity)
	if hi != 0 || lo > MaxAmount {
		return 0, false
	}
	return lo, true
}

// Split is the disbursement of one purchase.
type Split struct {
	TotalCost    uint64
	PlatformFee  uint64
	SellerAmount uint64
	Refund       uint64
}

// SplitPayment apportions totalCost between seller and platform, rounding the
// fee down, and computes the overpayment refund. Callers guarantee paid >= total.
func SplitPayment(totalCost, paid uint64) Split {
	fee := totalCost / 100 * FeePercent
	fee += (totalCost % 100) * FeePercent / 100
	return Split{
		TotalCost:    totalCost,
		PlatformFee:  fee,
		SellerAmount: totalCost - fee,
		Refund:       paid - totalCost,
	}
}
