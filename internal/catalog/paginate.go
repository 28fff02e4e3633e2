package catalog

import "github.com/AyoubAchour/almindhar-experience/internal/domain"

const DefaultPageSize = 10

// Window is a cumulative "load more" view: every item up to the current page.
type Window struct {
	Items   []domain.Experience `json:"items"`
	Total   int                 `json:"total"`
	Visible int                 `json:"visible"`
	HasMore bool                `json:"hasMore"`
}

func Paginate(in []domain.Experience, pageSize, page int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if last := len(in)/pageSize + 1; page > last {
		page = last
	}
	n := min(pageSize*page, len(in))
	return Window{
		Items:   in[:n:n],
		Total:   len(in),
		Visible: n,
		HasMore: n < len(in),
	}
}
