// Package pricing computes booking totals in integer minor units.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

type Quote struct {
	UnitPriceCents  int64 `json:"unit_price_cents"`
	NumberOfPeople  int   `json:"number_of_people"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	DiscountPercent int   `json:"discount_percent"`
	DiscountCents   int64 `json:"discount_cents"`
	TotalCents      int64 `json:"total_cents"`
}

// Calculate prices people seats at unitCents each. The discount is applied at
// most once, and only when applyDiscount is set and a percentage is present.
// The total is rounded half-up to the nearest minor unit.
func Calculate(unitCents int64, people int, applyDiscount bool, discountPercent *int) (Quote, error) {
	if unitCents < 0 {
		return Quote{}, domain.Invalid("price must not be negative")
	}
	if people < 1 {
		return Quote{}, domain.Invalid("number_of_people must be at least 1")
	}
	q := Quote{
		UnitPriceCents: unitCents,
		NumberOfPeople: people,
		SubtotalCents:  unitCents * int64(people),
	}
	q.TotalCents = q.SubtotalCents
	if !applyDiscount || discountPercent == nil {
		return q, nil
	}
	pct := *discountPercent
	if pct < 0 || pct > 100 {
		return Quote{}, domain.Invalid("discount must be between 0 and 100 percent")
	}
	total := decimal.NewFromInt(q.SubtotalCents).
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	q.DiscountPercent = pct
	q.TotalCents = total.IntPart()
	q.DiscountCents = q.SubtotalCents - q.TotalCents
	return q, nil
}

// Units renders cents as a currency amount for JSON views.
func Units(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}
