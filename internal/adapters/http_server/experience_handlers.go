package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AyoubAchour/almindhar-experience/internal/catalog"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/pricing"
)

const (
	maxPageSize     = 50
	defaultFeatured = 4
	paramPageSize   = "pageSize"
	paramLimit      = "limit"
)

type browseResponse struct {
	Items   []experienceView `json:"items"`
	Total   int              `json:"total"`
	Visible int              `json:"visible"`
	HasMore bool             `json:"hasMore"`
	Page    int              `json:"page"`
	State   string           `json:"state"`
}

func (h *Handlers) browseExperiences(w http.ResponseWriter, r *http.Request) {
	st, err := catalog.Decode(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	size, ok := intParam(r, paramPageSize, catalog.DefaultPageSize, maxPageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "pageSize must be a positive integer")
		return
	}
	res, err := h.Queries.Browse(r.Context(), st, size)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeCacheable(w, r, browseResponse{
		Items: viewExperiences(res.Items), Total: res.Total, Visible: res.Visible,
		HasMore: res.HasMore, Page: res.Page, State: res.State,
	})
}

func (h *Handlers) getExperience(w http.ResponseWriter, r *http.Request) {
	e, err := h.Queries.GetExperience(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Experience not found")
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeCacheable(w, r, viewExperience(e))
}

func (h *Handlers) locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Queries.Locations(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeCacheable(w, r, locs)
}

func (h *Handlers) priceRange(w http.ResponseWriter, r *http.Request) {
	pr, err := h.Queries.PriceRange(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeCacheable(w, r, map[string]float64{
		"min": pricing.Units(pr.MinCents),
		"max": pricing.Units(pr.MaxCents),
	})
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(r, paramLimit, defaultFeatured, maxPageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	es, err := h.Queries.Featured(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeCacheable(w, r, viewExperiences(es))
}
