package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// ImportService copies experiences from a partner feed into the store.
type ImportService struct {
	feed    domain.CatalogFeed
	repo    domain.ExperienceRepository
	misses  domain.ImportLog
	queries *QueryService
	now     func() time.Time
}

func NewImportService(f domain.CatalogFeed, r domain.ExperienceRepository, misses domain.ImportLog, q *QueryService) *ImportService {
	return &ImportService{feed: f, repo: r, misses: misses, queries: q, now: time.Now}
}

// ImportExperience fetches one feed entry and upserts it. Entries the feed
// no longer serves, refuses to serve, or that fail validation are recorded
// as misses and skipped; any other failure is returned.
func (s *ImportService) ImportExperience(ctx context.Context, feedID string) error {
	p, err := s.feed.GetExperience(ctx, feedID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.miss(ctx, feedID, 404, "not found")
			return nil
		case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
			s.miss(ctx, feedID, 403, "inactive")
			return nil
		}
		return err
	}

	e := mapExperience(feedID, p, s.now().UTC())
	if err := e.Validate(); err != nil {
		s.miss(ctx, feedID, 422, err.Error())
		return nil
	}

	// keep the original creation time so "newest" ordering survives re-imports
	if cur, err := s.repo.GetExperience(ctx, e.ID); err == nil {
		e.CreatedAt = cur.CreatedAt
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := s.repo.UpsertExperience(ctx, e); err != nil {
		return fmt.Errorf("upsert experience %s: %w", feedID, err)
	}
	if s.queries != nil {
		s.queries.Invalidate(ctx, e.ID)
	}
	return nil
}

func (s *ImportService) miss(ctx context.Context, feedID string, status int, reason string) {
	if err := s.misses.LogMiss(ctx, feedID, status, reason); err != nil {
		log.Warn().Err(err).Str("feed_id", feedID).Msg("record import miss failed")
	}
}

// FeedIDs lists the entries the feed currently offers.
func (s *ImportService) FeedIDs(ctx context.Context) ([]string, error) {
	return s.feed.ListExperienceIDs(ctx)
}
