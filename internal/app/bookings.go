package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AyoubAchour/almindhar-experience/internal/adapters/observability"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
	"github.com/AyoubAchour/almindhar-experience/internal/pricing"
)

// followUpTimeout bounds the work done after a booking commits.
const followUpTimeout = 3 * time.Second

type BookingService struct {
	experiences    domain.ExperienceRepository
	bookings       domain.BookingRepository
	games          domain.GameRepository
	events         domain.EventPublisher
	queries        *QueryService
	rule           loyalty.Rule
	now            func() time.Time
	followUpWithin time.Duration
}

func NewBookingService(
	e domain.ExperienceRepository,
	b domain.BookingRepository,
	g domain.GameRepository,
	ev domain.EventPublisher,
	q *QueryService,
	rule loyalty.Rule,
) *BookingService {
	return &BookingService{
		experiences: e, bookings: b, games: g, events: ev, queries: q, rule: rule,
		now: time.Now, followUpWithin: followUpTimeout,
	}
}

type BookingRequest struct {
	UserID         string
	ExperienceID   string
	BookingDate    string
	NumberOfPeople int
	Status         domain.BookingStatus
	ApplyDiscount  bool
}

// Quote prices a booking for userID. The discount comes from the user's game
// reward on that experience, never from the request.
func (s *BookingService) Quote(ctx context.Context, userID, experienceID string, people int, applyDiscount bool) (pricing.Quote, *string, error) {
	e, err := s.experiences.GetExperience(ctx, experienceID)
	if err != nil {
		return pricing.Quote{}, nil, err
	}
	return s.quote(ctx, userID, e, people, applyDiscount)
}

func (s *BookingService) quote(ctx context.Context, userID string, e domain.Experience, people int, applyDiscount bool) (pricing.Quote, *string, error) {
	var pct *int
	var rewardID *string
	if applyDiscount {
		scores, err := s.games.ListScores(ctx, userID, e.ID)
		if err != nil {
			return pricing.Quote{}, nil, err
		}
		if len(scores) > 0 {
			best := scores[0]
			if r := s.rule.Evaluate(best.Score); r.HasReward {
				pct = r.RewardDiscount
				id := best.ID
				rewardID = &id
			}
		}
	}
	q, err := pricing.Calculate(e.PriceCents, people, applyDiscount, pct)
	return q, rewardID, err
}

// Create books on behalf of actorID, who must be the booking's owner.
func (s *BookingService) Create(ctx context.Context, actorID string, req BookingRequest) (domain.Booking, error) {
	if req.UserID != actorID {
		observability.ObserveBooking("forbidden")
		return domain.Booking{}, domain.ErrForbidden
	}
	if req.Status == "" {
		req.Status = domain.BookingPending
	}
	b := domain.Booking{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		ExperienceID:   req.ExperienceID,
		BookingDate:    domain.DateKey(req.BookingDate),
		NumberOfPeople: req.NumberOfPeople,
		Status:         req.Status,
		CreatedAt:      s.now().UTC(),
	}
	if err := b.Validate(); err != nil {
		observability.ObserveBooking("invalid")
		return domain.Booking{}, err
	}

	e, err := s.experiences.GetExperience(ctx, b.ExperienceID)
	if err != nil {
		observability.ObserveBooking(outcome(err))
		return domain.Booking{}, err
	}
	q, rewardID, err := s.quote(ctx, b.UserID, e, b.NumberOfPeople, req.ApplyDiscount)
	if err != nil {
		observability.ObserveBooking(outcome(err))
		return domain.Booking{}, err
	}
	b.TotalPriceCents = q.TotalCents
	b.RewardID = rewardID

	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		observability.ObserveBooking(outcome(err))
		return domain.Booking{}, err
	}
	observability.ObserveBooking("created")
	b.Experience = &domain.ExperienceSummary{ID: e.ID, Title: e.Title, Location: e.Location, ImageURL: e.ImageURL}

	// the booking is stored: a client cancel or a slow broker must not turn it
	// into an error response
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.followUpWithin)
	defer cancel()
	s.queries.Invalidate(fctx, e.ID)
	if err := s.events.PublishBookingCreated(fctx, b); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Msg("publish booking.created failed")
	}
	return b, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientCapacity), errors.Is(err, domain.ErrDateUnavailable):
		return "full"
	case errors.Is(err, domain.ErrInvalid), errors.Is(err, domain.ErrNotFound):
		return "invalid"
	}
	return "error"
}

func (s *BookingService) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListUserBookings(ctx, userID)
}

func (s *BookingService) Get(ctx context.Context, userID, id string) (domain.Booking, error) {
	return s.bookings.GetUserBooking(ctx, userID, id)
}
