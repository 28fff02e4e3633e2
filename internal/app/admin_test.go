package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

func draft() domain.Experience {
	return domain.Experience{
		Title: "Balade à Djerba", Location: "Djerba", PriceCents: 3500,
		Duration: 90, Capacity: 8, Difficulty: domain.DifficultyEasy,
		AvailableDates: []domain.AvailableDate{{Date: "2025-09-01", SpotsLeft: 20}},
	}
}

func TestAdminCreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store, cache := seeded(), newFakeCache()
	q := app.NewQueryService(store, cache, time.Minute)
	svc := app.NewAdminService(store, q)

	_, _ = q.Catalog(ctx)
	created, err := svc.Create(ctx, draft())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, 8, created.AvailableDates[0].SpotsLeft, "spots are clamped to capacity")
	assert.True(t, created.AvailableDates[0].Available)
	assert.False(t, cache.has("experiences:all"))

	upd := draft()
	upd.Title = "Balade à Djerba au coucher du soleil"
	upd.ID = "ignored"
	got, err := svc.Update(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, upd.Title, got.Title)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestAdminRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := seeded()
	svc := app.NewAdminService(store, app.NewQueryService(store, newFakeCache(), time.Minute))

	bad := draft()
	bad.Difficulty = "extreme"
	_, err := svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = svc.Update(ctx, "missing", draft())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
