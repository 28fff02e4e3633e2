package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking is written once by the booking flow. TotalPriceCents is never recomputed.
type Booking struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	ExperienceID    string             `json:"experience_id"`
	BookingDate     string             `json:"booking_date"`
	NumberOfPeople  int                `json:"number_of_people"`
	Status          BookingStatus      `json:"status"`
	TotalPriceCents int64              `json:"total_price_cents"`
	RewardID        *string            `json:"reward_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Experience      *ExperienceSummary `json:"experience,omitempty"`
}

// ExperienceSummary is the slice of an experience shown next to a booking.
type ExperienceSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

func (b Booking) Validate() error {
	switch {
	case strings.TrimSpace(b.UserID) == "":
		return Invalid("user_id is required")
	case strings.TrimSpace(b.ExperienceID) == "":
		return Invalid("experience_id is required")
	case b.NumberOfPeople < 1:
		return Invalid("number_of_people must be at least 1")
	case b.TotalPriceCents < 0:
		return Invalid("total_price must not be negative")
	case !b.Status.Valid():
		return Invalid("status %q is not valid", b.Status)
	}
	if _, err := time.Parse(time.DateOnly, DateKey(b.BookingDate)); err != nil {
		return Invalid("booking_date must be YYYY-MM-DD")
	}
	return nil
}
