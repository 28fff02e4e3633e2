package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/pricing"
)

func ptr[T any](v T) *T { return &v }

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		unit     int64
		people   int
		apply    bool
		pct      *int
		want     int64
		discount int64
	}{
		{"no discount", 10000, 2, false, nil, 20000, 0},
		{"discount applied", 10000, 2, true, ptr(15), 17000, 3000},
		{"flag without reward", 10000, 2, true, nil, 20000, 0},
		{"reward without flag", 10000, 2, false, ptr(15), 20000, 0},
		{"rounds half up", 3333, 1, true, ptr(15), 2833, 500}, // 2833.05
		{"half cent", 10, 1, true, ptr(15), 9, 1},             // 8.5
		{"free", 0, 4, true, ptr(15), 0, 0},
		{"full discount", 4500, 3, true, ptr(100), 0, 13500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := pricing.Calculate(tc.unit, tc.people, tc.apply, tc.pct)
			require.NoError(t, err)
			assert.Equal(t, tc.unit*int64(tc.people), q.SubtotalCents)
			assert.Equal(t, tc.want, q.TotalCents)
			assert.Equal(t, tc.discount, q.DiscountCents)
		})
	}
}

func TestCalculate_RejectsBadInput(t *testing.T) {
	_, err := pricing.Calculate(-1, 1, false, nil)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = pricing.Calculate(100, 0, false, nil)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = pricing.Calculate(100, 1, true, ptr(120))
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestUnits(t *testing.T) {
	assert.Equal(t, 170.0, pricing.Units(17000))
	assert.Equal(t, 45.5, pricing.Units(4550))
}
