package app_test

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// ---- in-memory store ----

type memStore struct {
	mu          sync.Mutex
	experiences map[string]domain.Experience
	bookings    []domain.Booking
	scores      map[string]domain.GameScore
	progress    map[string]domain.GameProgress
	users       map[string]domain.User
	profiles    map[string]domain.UserProfile
	admins      map[string]bool
	misses      []string

	listCalls   int
	failList    error
	listGate    chan struct{} // when set, ListExperiences waits for it to close
	afterCommit func() // runs once a booking is stored
}

func newMemStore() *memStore {
	return &memStore{
		experiences: map[string]domain.Experience{},
		scores:      map[string]domain.GameScore{},
		progress:    map[string]domain.GameProgress{},
		users:       map[string]domain.User{},
		profiles:    map[string]domain.UserProfile{},
		admins:      map[string]bool{},
	}
}

func (m *memStore) UpsertExperience(ctx context.Context, e domain.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.experiences[e.ID] = e
	return nil
}

func (m *memStore) DeleteExperience(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.experiences[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.experiences, id)
	return nil
}

func (m *memStore) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	m.mu.Lock()
	m.listCalls++
	gate := m.listGate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	out := make([]domain.Experience, 0, len(m.experiences))
	for _, e := range m.experiences {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.Experience) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memStore) lists() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func (m *memStore) GetExperience(ctx context.Context, id string) (domain.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.experiences[id]
	if !ok {
		return domain.Experience{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *memStore) LogMiss(ctx context.Context, id string, status int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses = append(m.misses, id)
	return nil
}

func (m *memStore) CreateBooking(ctx context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.experiences[b.ExperienceID]
	if !ok {
		return domain.ErrNotFound
	}
	e.AvailableDates = slices.Clone(e.AvailableDates)
	if err := e.Reserve(b.BookingDate, b.NumberOfPeople); err != nil {
		return err
	}
	m.experiences[e.ID] = e
	m.bookings = append(m.bookings, b)
	if m.afterCommit != nil {
		m.afterCommit()
	}
	return nil
}

func (m *memStore) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) GetUserBooking(ctx context.Context, userID, id string) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return domain.Booking{}, domain.ErrNotFound
}

func (m *memStore) CountUserBookings(ctx context.Context, userID string) (int, error) {
	bs, _ := m.ListUserBookings(ctx, userID)
	return len(bs), nil
}

func scoreKey(userID, expID string) string { return userID + "|" + expID }

func (m *memStore) SaveHighScore(ctx context.Context, s domain.GameScore) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scoreKey(s.UserID, s.ExperienceID)
	cur, ok := m.scores[k]
	if ok && s.Score <= cur.Score {
		return false, nil
	}
	if ok {
		s.ID = cur.ID
	}
	m.scores[k] = s
	return true, nil
}

func (m *memStore) UpsertProgress(ctx context.Context, p domain.GameProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[scoreKey(p.UserID, p.ExperienceID)] = p
	return nil
}

func (m *memStore) ListScores(ctx context.Context, userID, experienceID string) ([]domain.GameScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.scores[scoreKey(userID, experienceID)]; ok {
		return []domain.GameScore{s}, nil
	}
	return nil, nil
}

func (m *memStore) CountCompletedGames(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.scores {
		if s.UserID == userID && s.Completed {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateUser(ctx context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email {
			return domain.ErrEmailExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) CreateProfile(ctx context.Context, p domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admins[userID], nil
}

// ---- cache ----

// fakeCache stores JSON like the Redis adapter does, so decoded values never
// alias what was stored.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// ---- events ----

type fakeEvents struct {
	mu    sync.Mutex
	sent  []domain.Booking
	err   error
	stall bool // wait for the context like a broker that never answers
}

func (f *fakeEvents) PublishBookingCreated(ctx context.Context, b domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.stall {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, b)
	return nil
}

// ---- feed ----

type fakeFeed struct {
	items map[string]map[string]any
	errs  map[string]error
}

func (f *fakeFeed) ListExperienceIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.items)+len(f.errs))
	for id := range f.items {
		ids = append(ids, id)
	}
	for id := range f.errs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, cmp.Compare[string])
	return ids, nil
}

func (f *fakeFeed) GetExperience(ctx context.Context, id string) (map[string]any, error) {
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it, nil
}
