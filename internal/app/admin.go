package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// AdminService edits the catalog. Every write drops the cached catalog.
type AdminService struct {
	repo    domain.ExperienceRepository
	queries *QueryService
	now     func() time.Time
}

func NewAdminService(r domain.ExperienceRepository, q *QueryService) *AdminService {
	return &AdminService{repo: r, queries: q, now: time.Now}
}

func (s *AdminService) Create(ctx context.Context, e domain.Experience) (domain.Experience, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()
	e.UpdatedAt = nil
	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Experience{}, err
	}
	if err := s.repo.UpsertExperience(ctx, e); err != nil {
		return domain.Experience{}, err
	}
	s.queries.Invalidate(ctx, e.ID)
	return s.repo.GetExperience(ctx, e.ID)
}

func (s *AdminService) Update(ctx context.Context, id string, e domain.Experience) (domain.Experience, error) {
	cur, err := s.repo.GetExperience(ctx, id)
	if err != nil {
		return domain.Experience{}, err
	}
	e.ID = cur.ID
	e.CreatedAt = cur.CreatedAt
	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Experience{}, err
	}
	if err := s.repo.UpsertExperience(ctx, e); err != nil {
		return domain.Experience{}, err
	}
	s.queries.Invalidate(ctx, id)
	return s.repo.GetExperience(ctx, id)
}

func (s *AdminService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteExperience(ctx, id); err != nil {
		return err
	}
	s.queries.Invalidate(ctx, id)
	return nil
}
