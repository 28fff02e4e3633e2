package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

type fakeChannel struct {
	fail   bool
	sent   []amqp.Publishing
	keys   []string
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.fail {
		return errors.New("channel closed")
	}
	f.keys = append(f.keys, key)
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChannel) Close() error { f.closed = true; return nil }

func booking() domain.Booking {
	return domain.Booking{
		ID: "b-1", UserID: "u-1", ExperienceID: "e-1", BookingDate: "2025-10-01T00:00:00Z",
		NumberOfPeople: 2, Status: domain.BookingPending, TotalPriceCents: 17000,
		CreatedAt: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestPublishBookingCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher("amqp://test", func(context.Context, string) (*amqp.Connection, channel, error) { return nil, ch, nil })

	require.NoError(t, p.PublishBookingCreated(context.Background(), booking()))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, BookingCreatedQueue, ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.sent[0].DeliveryMode)

	var ev BookingCreatedEvent
	require.NoError(t, json.Unmarshal(ch.sent[0].Body, &ev))
	assert.Equal(t, "2025-10-01", ev.BookingDate)
	assert.Equal(t, int64(17000), ev.TotalPriceCents)
	assert.Equal(t, "2025-09-01T08:00:00Z", ev.CreatedAt)
}

func TestPublishBookingCreated_ReconnectsOnce(t *testing.T) {
	broken := &fakeChannel{fail: true}
	good := &fakeChannel{}
	dials := 0
	p := newPublisher("amqp://test", func(context.Context, string) (*amqp.Connection, channel, error) {
		dials++
		if dials == 1 {
			return nil, broken, nil
		}
		return nil, good, nil
	})

	require.NoError(t, p.PublishBookingCreated(context.Background(), booking()))
	assert.True(t, broken.closed)
	assert.Len(t, good.sent, 1)
	assert.Equal(t, 2, dials)
}

func TestPublishBookingCreated_GivesUp(t *testing.T) {
	p := newPublisher("amqp://test", func(context.Context, string) (*amqp.Connection, channel, error) {
		return nil, nil, errors.New("connection refused")
	})
	assert.Error(t, p.PublishBookingCreated(context.Background(), booking()))
	assert.NoError(t, Noop{}.PublishBookingCreated(context.Background(), booking()))
}

func TestPublishBookingCreated_StalledDialDoesNotQueueCallers(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := newPublisher("amqp://test", func(ctx context.Context, _ string) (*amqp.Connection, channel, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil, nil, errors.New("dial timeout")
	})

	// first caller holds the publisher inside a dial that never completes on its own
	go func() { _ = p.PublishBookingCreated(context.Background(), booking()) }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := p.PublishBookingCreated(ctx, booking())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPublishBookingCreated_CancelledContextSkipsDial(t *testing.T) {
	dials := 0
	p := newPublisher("amqp://test", func(context.Context, string) (*amqp.Connection, channel, error) {
		dials++
		return nil, &fakeChannel{}, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.PublishBookingCreated(ctx, booking()))
	assert.Zero(t, dials)
}
