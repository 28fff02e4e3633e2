package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
)

type bookingFixture struct {
	store  *memStore
	cache  *fakeCache
	events *fakeEvents
	svc    *app.BookingService
}

func newBookingFixture() bookingFixture {
	store, cache, events := seeded(), newFakeCache(), &fakeEvents{}
	q := app.NewQueryService(store, cache, time.Minute)
	return bookingFixture{
		store: store, cache: cache, events: events,
		svc: app.NewBookingService(store, store, store, events, q, loyalty.DefaultRule()),
	}
}

func req(user, exp, date string, people int) app.BookingRequest {
	return app.BookingRequest{UserID: user, ExperienceID: exp, BookingDate: date, NumberOfPeople: people}
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	_, _ = app.NewQueryService(f.store, f.cache, time.Minute).Catalog(ctx)

	b, err := f.svc.Create(ctx, "u1", req("u1", "a", "2025-07-01T00:00:00Z", 2))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "2025-07-01", b.BookingDate)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, int64(9000), b.TotalPriceCents)
	assert.Nil(t, b.RewardID)
	require.NotNil(t, b.Experience)
	assert.Equal(t, "Médina de Tunis", b.Experience.Title)

	e := f.store.experiences["a"]
	assert.Equal(t, 3, e.AvailableDates[0].SpotsLeft)
	assert.False(t, f.cache.has("experiences:all"), "catalog cache must be dropped")
	require.Len(t, f.events.sent, 1)
	assert.Equal(t, b.ID, f.events.sent[0].ID)
}

func TestBookingCreate_Rejections(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		actor string
		r     app.BookingRequest
		want  error
	}{
		{"other user", "u2", req("u1", "a", "2025-07-01", 1), domain.ErrForbidden},
		{"no such experience", "u1", req("u1", "zzz", "2025-07-01", 1), domain.ErrNotFound},
		{"date not offered", "u1", req("u1", "a", "2025-08-15", 1), domain.ErrDateUnavailable},
		{"sold out date", "u1", req("u1", "a", "2025-07-02", 1), domain.ErrDateUnavailable},
		{"too many people", "u1", req("u1", "a", "2025-07-01", 6), domain.ErrInsufficientCapacity},
		{"zero people", "u1", req("u1", "a", "2025-07-01", 0), domain.ErrInvalid},
		{"bad date", "u1", req("u1", "a", "July 1st", 1), domain.ErrInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBookingFixture()
			_, err := f.svc.Create(ctx, tc.actor, tc.r)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.store.bookings)
			assert.Equal(t, 5, f.store.experiences["a"].AvailableDates[0].SpotsLeft)
			assert.Empty(t, f.events.sent)
		})
	}
}

func TestBookingCreate_DiscountNeedsQualifyingScore(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	r := req("u1", "a", "2025-07-01", 2)
	r.ApplyDiscount = true

	// no score yet: flag is ignored
	b, err := f.svc.Create(ctx, "u1", r)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), b.TotalPriceCents)
	assert.Nil(t, b.RewardID)

	_, err = f.store.SaveHighScore(ctx, domain.GameScore{ID: "s1", UserID: "u1", ExperienceID: "a", Score: 80})
	require.NoError(t, err)

	b, err = f.svc.Create(ctx, "u1", r)
	require.NoError(t, err)
	assert.Equal(t, int64(7650), b.TotalPriceCents)
	require.NotNil(t, b.RewardID)
	assert.Equal(t, "s1", *b.RewardID)
}

func TestBookingQuote(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	_, err := f.store.SaveHighScore(ctx, domain.GameScore{ID: "s1", UserID: "u1", ExperienceID: "c", Score: 75})
	require.NoError(t, err)

	q, rid, err := f.svc.Quote(ctx, "u1", "c", 3, true)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), q.SubtotalCents)
	assert.Equal(t, 15, q.DiscountPercent)
	assert.Equal(t, int64(38250), q.TotalCents)
	require.NotNil(t, rid)

	q, rid, err = f.svc.Quote(ctx, "u2", "c", 3, true)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), q.TotalCents)
	assert.Nil(t, rid)
}

func TestBookingCreate_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture()
	f.events.err = errors.New("broker down")

	_, err := f.svc.Create(context.Background(), "u1", req("u1", "a", "2025-07-01", 1))
	require.NoError(t, err)
	assert.Len(t, f.store.bookings, 1)
}

func TestBookingCreate_StalledBrokerStillConfirms(t *testing.T) {
	f := newBookingFixture()
	f.events.stall = true
	app.SetFollowUpTimeout(f.svc, 50*time.Millisecond)

	start := time.Now()
	b, err := f.svc.Create(context.Background(), "u1", req("u1", "a", "2025-07-01", 1))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, f.store.bookings, 1)
}

func TestBookingCreate_CancelledRequestStillInvalidatesAndPublishes(t *testing.T) {
	f := newBookingFixture()
	q := app.NewQueryService(f.store, f.cache, time.Minute)
	_, err := q.GetExperience(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, f.cache.has("experience:a"))

	ctx, cancel := context.WithCancel(context.Background())
	f.store.afterCommit = cancel

	_, err = f.svc.Create(ctx, "u1", req("u1", "a", "2025-07-01", 1))
	require.NoError(t, err)
	assert.False(t, f.cache.has("experience:a"), "stale spots must not outlive the booking")
	assert.Len(t, f.events.sent, 1)
}

func TestBookingCreate_ConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, full := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, "u1", req("u1", "a", "2025-07-01", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDateUnavailable), errors.Is(err, domain.ErrInsufficientCapacity):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, ok)
	assert.Equal(t, 3, full)
	assert.Equal(t, 0, f.store.experiences["a"].AvailableDates[0].SpotsLeft)
	assert.False(t, f.store.experiences["a"].AvailableDates[0].Available)
}

func TestBookingListAndGet(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	b, err := f.svc.Create(ctx, "u1", req("u1", "a", "2025-07-01", 1))
	require.NoError(t, err)

	list, err := f.svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := f.svc.Get(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.Get(ctx, "u2", b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
