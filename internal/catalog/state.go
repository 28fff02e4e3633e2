package catalog

import (
	"slices"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// ViewState is everything that decides what a browse request shows.
// Treat it as a value: Reduce never modifies its input.
type ViewState struct {
	Filters FilterState `json:"filters"`
	Query   string      `json:"query,omitempty"`
	Sort    SortKey     `json:"sort"`
	Page    int         `json:"page"`
}

func NewViewState() ViewState { return ViewState{Sort: SortNewest, Page: 1} }

// Action is a user intent applied by Reduce.
type Action interface{ apply(ViewState) ViewState }

type (
	SetQuery         string
	ToggleDifficulty domain.Difficulty
	SetPriceRange    Bounds
	SetDurationRange Bounds
	SetLocation      string
	SetSort          SortKey
	ResetFilters     struct{}
	LoadMore         struct{}
)

func (a SetQuery) apply(s ViewState) ViewState { s.Query = string(a); return s }

func (a ToggleDifficulty) apply(s ViewState) ViewState {
	d := domain.Difficulty(a)
	if i := slices.Index(s.Filters.Difficulty, d); i >= 0 {
		s.Filters.Difficulty = slices.Delete(slices.Clone(s.Filters.Difficulty), i, i+1)
	} else {
		s.Filters.Difficulty = append(slices.Clone(s.Filters.Difficulty), d)
	}
	return s
}

func (a SetPriceRange) apply(s ViewState) ViewState    { s.Filters.Price = Bounds(a); return s }
func (a SetDurationRange) apply(s ViewState) ViewState { s.Filters.Duration = Bounds(a); return s }
func (a SetLocation) apply(s ViewState) ViewState      { s.Filters.Location = string(a); return s }
func (a SetSort) apply(s ViewState) ViewState          { s.Sort = ParseSortKey(string(a)); return s }
func (ResetFilters) apply(s ViewState) ViewState       { s.Filters = FilterState{}; return s }
func (LoadMore) apply(s ViewState) ViewState           { s.Page++; return s }

// Reduce returns the state after a. Anything that changes the result set
// sends the window back to page 1; only LoadMore grows it.
func Reduce(s ViewState, a Action) ViewState {
	next := a.apply(s)
	if _, more := a.(LoadMore); !more {
		next.Page = 1
	}
	return next
}
