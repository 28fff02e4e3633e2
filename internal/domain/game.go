package domain

import "time"

const (
	MinScore = 0
	MaxScore = 100
)

// GameScore is the best score a user has reached on an experience's game.
// There is at most one per (UserID, ExperienceID) and Score never decreases.
type GameScore struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	ExperienceID  string        `json:"experience_id"`
	Score         int           `json:"score"`
	Completed     bool          `json:"completed"`
	RewardsEarned []RewardGrant `json:"rewards_earned"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type RewardGrant struct {
	Type        string `json:"type"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

type GameProgress struct {
	UserID       string    `json:"user_id"`
	ExperienceID string    `json:"experience_id"`
	LastScore    int       `json:"last_score"`
	Completed    bool      `json:"completed"`
	LastPlayedAt time.Time `json:"last_played_at"`
}

func ValidScore(score int) error {
	if score < MinScore || score > MaxScore {
		return Invalid("score must be between %d and %d", MinScore, MaxScore)
	}
	return nil
}
