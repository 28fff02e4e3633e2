package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AyoubAchour/almindhar-experience/internal/catalog"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/pricing"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const maxBody = 1 << 20

// decode reads a JSON body into dst and runs its validate tags. Failures
// come back as domain validation errors.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("request body is required")
		}
		return domain.Invalid("malformed JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return domain.Invalid("%s", describe(ves[0]))
		}
		return domain.Invalid("invalid request")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a %s date", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// ---- requests ----

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type bookingRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	ExperienceID   string   `json:"experience_id" validate:"required"`
	BookingDate    string   `json:"booking_date" validate:"required"`
	NumberOfPeople int      `json:"number_of_people" validate:"required,min=1"`
	Status         string   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	TotalPrice     *float64 `json:"total_price"` // ignored, recomputed server-side
	ApplyDiscount  bool     `json:"apply_discount"`
}

type quoteRequest struct {
	ExperienceID   string `json:"experience_id" validate:"required"`
	NumberOfPeople int    `json:"number_of_people" validate:"required,min=1"`
	ApplyDiscount  bool   `json:"apply_discount"`
}

type scoreRequest struct {
	Score     *int `json:"score" validate:"required,gte=0,lte=100"`
	Completed bool `json:"completed"`
}

type dateInput struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	SpotsLeft int    `json:"spots_left" validate:"gte=0"`
}

type featureInput struct {
	Type string `json:"type" validate:"required,oneof=included not_included"`
	Name string `json:"name" validate:"required"`
}

type experienceInput struct {
	Title          string         `json:"title" validate:"required,max=200"`
	Description    string         `json:"description"`
	Location       string         `json:"location" validate:"required,max=120"`
	ImageURL       string         `json:"image_url" validate:"omitempty,url"`
	Price          json.Number    `json:"price" validate:"required"`
	Duration       int            `json:"duration" validate:"required,min=1"`
	Capacity       int            `json:"capacity" validate:"required,min=1"`
	Difficulty     string         `json:"difficulty" validate:"required,oneof=easy moderate challenging"`
	Features       []featureInput `json:"features" validate:"dive"`
	HasGame        bool           `json:"has_game"`
	GameID         *string        `json:"game_id"`
	AvailableDates []dateInput    `json:"available_dates" validate:"dive"`
}

func (in experienceInput) toDomain() (domain.Experience, error) {
	cents, err := catalog.UnitsToCents(in.Price.String())
	if err != nil {
		return domain.Experience{}, domain.Invalid("price must be a number")
	}
	e := domain.Experience{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		ImageURL:    in.ImageURL,
		PriceCents:  cents,
		Duration:    in.Duration,
		Capacity:    in.Capacity,
		Difficulty:  domain.Difficulty(in.Difficulty),
		HasGame:     in.HasGame,
		GameID:      in.GameID,
	}
	for _, f := range in.Features {
		e.Features = append(e.Features, domain.Feature{Type: domain.FeatureType(f.Type), Name: f.Name})
	}
	for _, d := range in.AvailableDates {
		e.AvailableDates = append(e.AvailableDates, domain.AvailableDate{Date: d.Date, SpotsLeft: d.SpotsLeft})
	}
	return e, nil
}

// ---- views ----

type experienceView struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Location       string                 `json:"location"`
	ImageURL       string                 `json:"image_url"`
	Price          float64                `json:"price"`
	Duration       int                    `json:"duration"`
	Capacity       int                    `json:"capacity"`
	Difficulty     domain.Difficulty      `json:"difficulty"`
	Features       []domain.Feature       `json:"features"`
	HasGame        bool                   `json:"has_game"`
	GameID         *string                `json:"game_id"`
	AvailableDates []domain.AvailableDate `json:"available_dates"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      *time.Time             `json:"updated_at,omitempty"`
}

func viewExperience(e domain.Experience) experienceView {
	v := experienceView{
		ID: e.ID, Title: e.Title, Description: e.Description, Location: e.Location,
		ImageURL: e.ImageURL, Price: pricing.Units(e.PriceCents), Duration: e.Duration,
		Capacity: e.Capacity, Difficulty: e.Difficulty, Features: e.Features,
		HasGame: e.HasGame, GameID: e.GameID, AvailableDates: e.AvailableDates,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
	if v.Features == nil {
		v.Features = []domain.Feature{}
	}
	if v.AvailableDates == nil {
		v.AvailableDates = []domain.AvailableDate{}
	}
	return v
}

func viewExperiences(es []domain.Experience) []experienceView {
	out := make([]experienceView, 0, len(es))
	for _, e := range es {
		out = append(out, viewExperience(e))
	}
	return out
}

type bookingView struct {
	ID             string                    `json:"id"`
	UserID         string                    `json:"user_id"`
	ExperienceID   string                    `json:"experience_id"`
	BookingDate    string                    `json:"booking_date"`
	NumberOfPeople int                       `json:"number_of_people"`
	Status         domain.BookingStatus      `json:"status"`
	TotalPrice     float64                   `json:"total_price"`
	RewardID       *string                   `json:"reward_id"`
	CreatedAt      time.Time                 `json:"created_at"`
	Experience     *domain.ExperienceSummary `json:"experience,omitempty"`
}

func viewBooking(b domain.Booking) bookingView {
	return bookingView{
		ID: b.ID, UserID: b.UserID, ExperienceID: b.ExperienceID, BookingDate: b.BookingDate,
		NumberOfPeople: b.NumberOfPeople, Status: b.Status, TotalPrice: pricing.Units(b.TotalPriceCents),
		RewardID: b.RewardID, CreatedAt: b.CreatedAt, Experience: b.Experience,
	}
}

type quoteView struct {
	UnitPrice       float64 `json:"unit_price"`
	NumberOfPeople  int     `json:"number_of_people"`
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent int     `json:"discount_percent"`
	Discount        float64 `json:"discount"`
	Total           float64 `json:"total"`
	RewardID        *string `json:"reward_id"`
}

func viewQuote(q pricing.Quote, rewardID *string) quoteView {
	return quoteView{
		UnitPrice: pricing.Units(q.UnitPriceCents), NumberOfPeople: q.NumberOfPeople,
		Subtotal: pricing.Units(q.SubtotalCents), DiscountPercent: q.DiscountPercent,
		Discount: pricing.Units(q.DiscountCents), Total: pricing.Units(q.TotalCents),
		RewardID: rewardID,
	}
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func viewUser(u domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
