package catalog

import (
	"cmp"
	"slices"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortPriceLow     SortKey = "price-low"
	SortPriceHigh    SortKey = "price-high"
	SortDurationLow  SortKey = "duration-low"
	SortDurationHigh SortKey = "duration-high"
)

// ParseSortKey maps unknown or empty values to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortDurationLow, SortDurationHigh:
		return k
	}
	return SortNewest
}

func comparator(key SortKey) func(a, b domain.Experience) int {
	switch key {
	case SortPriceLow:
		return func(a, b domain.Experience) int { return cmp.Compare(a.PriceCents, b.PriceCents) }
	case SortPriceHigh:
		return func(a, b domain.Experience) int { return cmp.Compare(b.PriceCents, a.PriceCents) }
	case SortDurationLow:
		return func(a, b domain.Experience) int { return cmp.Compare(a.Duration, b.Duration) }
	case SortDurationHigh:
		return func(a, b domain.Experience) int { return cmp.Compare(b.Duration, a.Duration) }
	default:
		return func(a, b domain.Experience) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

// SortExperiences returns a sorted copy. Equal keys keep their input order.
func SortExperiences(in []domain.Experience, key SortKey) []domain.Experience {
	out := slices.Clone(in)
	slices.SortStableFunc(out, comparator(ParseSortKey(string(key))))
	return out
}
