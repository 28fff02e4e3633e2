package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AyoubAchour/almindhar-experience/internal/adapters/observability"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
)

type GameService struct {
	experiences domain.ExperienceRepository
	games       domain.GameRepository
	rule        loyalty.Rule
	now         func() time.Time
}

func NewGameService(e domain.ExperienceRepository, g domain.GameRepository, rule loyalty.Rule) *GameService {
	return &GameService{experiences: e, games: g, rule: rule, now: time.Now}
}

type GameStatus struct {
	loyalty.GameReward
	HighScore int                `json:"highScore"`
	Completed bool               `json:"completed"`
	Scores    []domain.GameScore `json:"scores"`
}

func (s *GameService) Status(ctx context.Context, userID, experienceID string) (GameStatus, error) {
	scores, err := s.games.ListScores(ctx, userID, experienceID)
	if err != nil {
		return GameStatus{}, err
	}
	st := GameStatus{Scores: scores}
	if len(scores) > 0 {
		st.HighScore = scores[0].Score
		st.Completed = scores[0].Completed
	}
	st.GameReward = s.rule.Evaluate(st.HighScore)
	return st, nil
}

type SubmitResult struct {
	Updated bool       `json:"updated"`
	Status  GameStatus `json:"status"`
}

// Submit records score if it beats the stored best. A lower or equal score is
// accepted and discarded. The experience must exist and carry a game.
func (s *GameService) Submit(ctx context.Context, userID, experienceID string, score int, completed bool) (SubmitResult, error) {
	if strings.TrimSpace(experienceID) == "" {
		return SubmitResult{}, domain.Invalid("experience id is required")
	}
	if err := domain.ValidScore(score); err != nil {
		return SubmitResult{}, err
	}
	// ids are CHAR(36); anything longer cannot name a stored experience
	if len(experienceID) > 36 {
		return SubmitResult{}, domain.ErrNotFound
	}
	e, err := s.experiences.GetExperience(ctx, experienceID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !e.HasGame {
		return SubmitResult{}, domain.Invalid("experience %s has no game", experienceID)
	}
	updated, err := s.games.SaveHighScore(ctx, domain.GameScore{
		ID:            uuid.NewString(),
		UserID:        userID,
		ExperienceID:  experienceID,
		Score:         score,
		Completed:     completed,
		RewardsEarned: s.rule.Grants(score),
	})
	if err != nil {
		return SubmitResult{}, err
	}
	observability.ObserveScore(updated)
	if updated {
		p := domain.GameProgress{
			UserID: userID, ExperienceID: experienceID,
			LastScore: score, Completed: completed, LastPlayedAt: s.now().UTC(),
		}
		if err := s.games.UpsertProgress(ctx, p); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("experience_id", experienceID).Msg("game progress update failed")
		}
	}
	st, err := s.Status(ctx, userID, experienceID)
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Updated: updated, Status: st}, nil
}
