package catalog

import "github.com/AyoubAchour/almindhar-experience/internal/domain"

type Result struct {
	Window
	Page  int    `json:"page"`
	State string `json:"state"` // canonical query string of the state that produced it
}

// Run applies search, filters, sort and the page window, in that order.
func Run(all []domain.Experience, s ViewState, pageSize int) Result {
	items := ApplySearch(all, s.Query)
	items = ApplyFilters(items, s.Filters)
	items = SortExperiences(items, s.Sort)
	page := max(s.Page, 1)
	return Result{
		Window: Paginate(items, pageSize, page),
		Page:   page,
		State:  Encode(s).Encode(),
	}
}
