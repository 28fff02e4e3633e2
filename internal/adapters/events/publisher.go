// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/AyoubAchour/almindhar-experience/internal/adapters/observability"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

const BookingCreatedQueue = "booking.created"

// dialTimeout bounds the TCP connect and the AMQP handshake.
const dialTimeout = 2 * time.Second

type BookingCreatedEvent struct {
	BookingID       string  `json:"booking_id"`
	UserID          string  `json:"user_id"`
	ExperienceID    string  `json:"experience_id"`
	BookingDate     string  `json:"booking_date"`
	NumberOfPeople  int     `json:"number_of_people"`
	Status          string  `json:"status"`
	TotalPriceCents int64   `json:"total_price_cents"`
	RewardID        *string `json:"reward_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func NewBookingCreatedEvent(b domain.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:       b.ID,
		UserID:          b.UserID,
		ExperienceID:    b.ExperienceID,
		BookingDate:     domain.DateKey(b.BookingDate),
		NumberOfPeople:  b.NumberOfPeople,
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		RewardID:        b.RewardID,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends each event as a persistent JSON message on a durable queue.
// Publishes are serialised; a caller whose context ends while waiting gives up.
type Publisher struct {
	sem  *semaphore.Weighted
	url  string
	conn *amqp.Connection
	ch   channel
	dial func(ctx context.Context, url string) (*amqp.Connection, channel, error)
}

func dialAMQP(ctx context.Context, url string) (*amqp.Connection, channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(BookingCreatedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}
	return conn, ch, nil
}

// New connects lazily: the first publish dials the broker.
func New(url string) *Publisher { return newPublisher(url, dialAMQP) }

func newPublisher(url string, dial func(context.Context, string) (*amqp.Connection, channel, error)) *Publisher {
	return &Publisher{sem: semaphore.NewWeighted(1), url: url, dial: dial}
}

func (p *Publisher) channel(ctx context.Context) (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	conn, ch, err := p.dial(ctx, p.url)
	if err != nil {
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, b domain.Booking) error {
	body, err := json.Marshal(NewBookingCreatedEvent(b))
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    b.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		observability.ObserveEvent(BookingCreatedQueue, err)
		return fmt.Errorf("publisher busy: %w", err)
	}
	defer p.sem.Release(1)
	// one reconnect attempt covers a broker restart between bookings
	for attempt := 0; attempt < 2; attempt++ {
		if err = ctx.Err(); err != nil {
			break
		}
		var ch channel
		if ch, err = p.channel(ctx); err == nil {
			if err = ch.PublishWithContext(ctx, "", BookingCreatedQueue, false, false, msg); err == nil {
				break
			}
		}
		p.reset()
	}
	observability.ObserveEvent(BookingCreatedQueue, err)
	return err
}

func (p *Publisher) Close() error {
	_ = p.sem.Acquire(context.Background(), 1)
	defer p.sem.Release(1)
	p.reset()
	return nil
}

// Noop drops events. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishBookingCreated(ctx context.Context, b domain.Booking) error {
	log.Debug().Str("booking_id", b.ID).Msg("event broker disabled; booking.created dropped")
	return nil
}
