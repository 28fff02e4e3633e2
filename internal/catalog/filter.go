// Package catalog holds the pure browse pipeline over an in-memory list of
// experiences: filter, search, sort and cumulative pagination, plus the
// view state that drives it.
package catalog

import (
	"slices"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// Bounds is a closed interval. A nil end is unbounded.
type Bounds struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

func (b Bounds) Contains(v int64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

func (b Bounds) IsZero() bool { return b.Min == nil && b.Max == nil }

type FilterState struct {
	Difficulty []domain.Difficulty `json:"difficulty,omitempty"` // empty = any
	Price      Bounds              `json:"price"`                // cents
	Duration   Bounds              `json:"duration"`             // minutes
	Location   string              `json:"location,omitempty"`   // "" = any
}

func (f FilterState) Match(e domain.Experience) bool {
	if len(f.Difficulty) > 0 && !slices.Contains(f.Difficulty, e.Difficulty) {
		return false
	}
	if !f.Price.Contains(e.PriceCents) {
		return false
	}
	if !f.Duration.Contains(int64(e.Duration)) {
		return false
	}
	if f.Location != "" && e.Location != f.Location {
		return false
	}
	return true
}

// ApplyFilters returns the experiences matching every constraint of f, in input order.
func ApplyFilters(in []domain.Experience, f FilterState) []domain.Experience {
	out := make([]domain.Experience, 0, len(in))
	for _, e := range in {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
