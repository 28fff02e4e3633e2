package domain

import (
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	}
	return false
}

type FeatureType string

const (
	FeatureIncluded    FeatureType = "included"
	FeatureNotIncluded FeatureType = "not_included"
)

type Feature struct {
	Type FeatureType `json:"type"`
	Name string      `json:"name"`
}

// AvailableDate is one bookable day of an experience.
// Available is derived: it is true exactly when SpotsLeft > 0.
type AvailableDate struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	SpotsLeft int    `json:"spots_left"`
}

type Experience struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	ImageURL       string          `json:"image_url"`
	PriceCents     int64           `json:"price_cents"`
	Duration       int             `json:"duration"` // minutes
	Capacity       int             `json:"capacity"`
	Difficulty     Difficulty      `json:"difficulty"`
	Features       []Feature       `json:"features"`
	HasGame        bool            `json:"has_game"`
	GameID         *string         `json:"game_id,omitempty"`
	AvailableDates []AvailableDate `json:"available_dates"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// DateKey reduces a date or timestamp string to its YYYY-MM-DD prefix.
func DateKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// Normalize clamps every slot to [0, Capacity] and recomputes Available.
func (e *Experience) Normalize() {
	for i := range e.AvailableDates {
		d := &e.AvailableDates[i]
		d.Date = DateKey(d.Date)
		if d.SpotsLeft < 0 {
			d.SpotsLeft = 0
		}
		if e.Capacity > 0 && d.SpotsLeft > e.Capacity {
			d.SpotsLeft = e.Capacity
		}
		d.Available = d.SpotsLeft > 0
	}
}

// Slot returns the index of the slot for date, or -1.
func (e Experience) Slot(date string) int {
	key := DateKey(date)
	for i, d := range e.AvailableDates {
		if DateKey(d.Date) == key {
			return i
		}
	}
	return -1
}

// Reserve takes n spots from the slot for date.
// The receiver is modified in place; callers hold whatever lock guards the record.
func (e *Experience) Reserve(date string, n int) error {
	i := e.Slot(date)
	if i < 0 || !e.AvailableDates[i].Available {
		return ErrDateUnavailable
	}
	d := &e.AvailableDates[i]
	if d.SpotsLeft < n {
		return fmt.Errorf("%w: %d requested, %d left", ErrInsufficientCapacity, n, d.SpotsLeft)
	}
	d.SpotsLeft = max(d.SpotsLeft-n, 0)
	d.Available = d.SpotsLeft > 0
	return nil
}

func (e Experience) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return Invalid("title is required")
	case strings.TrimSpace(e.Location) == "":
		return Invalid("location is required")
	case e.PriceCents < 0:
		return Invalid("price must not be negative")
	case e.Duration <= 0:
		return Invalid("duration must be positive")
	case e.Capacity <= 0:
		return Invalid("capacity must be positive")
	case !e.Difficulty.Valid():
		return Invalid("difficulty must be one of easy, moderate, challenging")
	}
	for _, f := range e.Features {
		if f.Type != FeatureIncluded && f.Type != FeatureNotIncluded {
			return Invalid("feature %q has unknown type %q", f.Name, f.Type)
		}
	}
	for _, d := range e.AvailableDates {
		if _, err := time.Parse(time.DateOnly, DateKey(d.Date)); err != nil {
			return Invalid("available date %q is not YYYY-MM-DD", d.Date)
		}
	}
	if e.HasGame && (e.GameID == nil || *e.GameID == "") {
		return Invalid("game_id is required when has_game is set")
	}
	return nil
}
