package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/AyoubAchour/almindhar-experience/internal/catalog"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

const catalogKey = "experiences:all"

func experienceKey(id string) string { return fmt.Sprintf("experience:%s", id) }

type QueryService struct {
	repo     domain.ExperienceRepository
	cache    domain.Cache
	cacheTTL time.Duration
	loads    singleflight.Group
}

func NewQueryService(r domain.ExperienceRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// Catalog returns every experience, newest first. Concurrent misses share one
// store read. Callers get their own copy and may reorder it.
func (s *QueryService) Catalog(ctx context.Context) ([]domain.Experience, error) {
	var cached []domain.Experience
	if ok, _ := s.cache.Get(ctx, catalogKey, &cached); ok {
		return cached, nil
	}
	v, err, _ := s.loads.Do(catalogKey, func() (any, error) {
		// shared by every waiter, so one caller going away must not cancel it
		lctx := context.WithoutCancel(ctx)
		list, err := s.repo.ListExperiences(lctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(lctx, catalogKey, list, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Msg("catalog cache set failed")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return deepCopyExperiences(v.([]domain.Experience)), nil
}

// Browse runs the search/filter/sort/page pipeline over the catalog.
func (s *QueryService) Browse(ctx context.Context, st catalog.ViewState, pageSize int) (catalog.Result, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return catalog.Run(all, st, pageSize), nil
}

func (s *QueryService) GetExperience(ctx context.Context, id string) (domain.Experience, error) {
	key := experienceKey(id)
	var e domain.Experience
	if ok, _ := s.cache.Get(ctx, key, &e); ok {
		return e, nil
	}
	e, err := s.repo.GetExperience(ctx, id)
	if err != nil {
		return domain.Experience{}, err
	}
	_ = s.cache.Set(ctx, key, e, int(s.cacheTTL.Seconds()))
	return deepCopyExperience(e), nil
}

// Locations lists the distinct locations in the catalog, sorted.
func (s *QueryService) Locations(ctx context.Context) ([]string, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, e := range all {
		if e.Location != "" {
			out = append(out, e.Location)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

type PriceRange struct {
	MinCents int64 `json:"min_cents"`
	MaxCents int64 `json:"max_cents"`
}

// PriceRange is the observed min and max price; zero for an empty catalog.
func (s *QueryService) PriceRange(ctx context.Context) (PriceRange, error) {
	all, err := s.Catalog(ctx)
	if err != nil || len(all) == 0 {
		return PriceRange{}, err
	}
	lo := slices.MinFunc(all, func(a, b domain.Experience) int { return cmp.Compare(a.PriceCents, b.PriceCents) })
	hi := slices.MaxFunc(all, func(a, b domain.Experience) int { return cmp.Compare(a.PriceCents, b.PriceCents) })
	return PriceRange{MinCents: lo.PriceCents, MaxCents: hi.PriceCents}, nil
}

// Featured returns the limit newest experiences.
func (s *QueryService) Featured(ctx context.Context, limit int) ([]domain.Experience, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	sorted := catalog.SortExperiences(all, catalog.SortNewest)
	return sorted[:min(max(limit, 0), len(sorted))], nil
}

// Invalidate drops the catalog and, when id is set, that experience's entry.
func (s *QueryService) Invalidate(ctx context.Context, id string) {
	if err := s.cache.Del(ctx, catalogKey); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
	if id == "" {
		return
	}
	if err := s.cache.Del(ctx, experienceKey(id)); err != nil {
		log.Warn().Err(err).Str("experience_id", id).Msg("experience cache invalidation failed")
	}
}

func deepCopyExperience(e domain.Experience) domain.Experience {
	e.Features = slices.Clone(e.Features)
	e.AvailableDates = slices.Clone(e.AvailableDates)
	if e.GameID != nil {
		g := *e.GameID
		e.GameID = &g
	}
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		e.UpdatedAt = &u
	}
	return e
}

func deepCopyExperiences(in []domain.Experience) []domain.Experience {
	out := make([]domain.Experience, len(in))
	for i, e := range in {
		out[i] = deepCopyExperience(e)
	}
	return out
}
