package domain

import "context"

type ExperienceRepository interface {
	// Write paths
	UpsertExperience(ctx context.Context, e Experience) error
	DeleteExperience(ctx context.Context, id string) error

	// Read paths
	ListExperiences(ctx context.Context) ([]Experience, error) // newest first
	GetExperience(ctx context.Context, id string) (Experience, error)
}

type BookingRepository interface {
	// CreateBooking inserts b and takes b.NumberOfPeople spots from the
	// matching date of the experience in a single transaction.
	CreateBooking(ctx context.Context, b Booking) error
	ListUserBookings(ctx context.Context, userID string) ([]Booking, error)
	GetUserBooking(ctx context.Context, userID, id string) (Booking, error)
	CountUserBookings(ctx context.Context, userID string) (int, error)
}

type GameRepository interface {
	// SaveHighScore stores s only when it beats the stored score.
	SaveHighScore(ctx context.Context, s GameScore) (updated bool, err error)
	UpsertProgress(ctx context.Context, p GameProgress) error
	ListScores(ctx context.Context, userID, experienceID string) ([]GameScore, error)
	CountCompletedGames(ctx context.Context, userID string) (int, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	CreateProfile(ctx context.Context, p UserProfile) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, b Booking) error
}

// ImportLog records feed entries the seeder had to skip.
type ImportLog interface {
	LogMiss(ctx context.Context, id string, status int, reason string) error
}

// CatalogFeed is a partner content source the seeder imports experiences from.
type CatalogFeed interface {
	ListExperienceIDs(ctx context.Context) ([]string, error)
	GetExperience(ctx context.Context, id string) (map[string]any, error)
}
