package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// SaveHighScore inserts or raises the stored score in one statement, so two
// concurrent submissions can never lower it. updated is false when s did not
// beat what was stored.
func (r *Repo) SaveHighScore(ctx context.Context, s domain.GameScore) (bool, error) {
	grants := s.RewardsEarned
	if grants == nil {
		grants = []domain.RewardGrant{}
	}
	gj, err := json.Marshal(grants)
	if err != nil {
		return false, fmt.Errorf("encode rewards: %w", err)
	}
	res, err := r.db.ExecContext(ctx, upsertHighScoreSQL,
		s.ID, s.UserID, s.ExperienceID, s.Score, s.Completed, string(gj))
	if err != nil {
		return false, err
	}
	// 1 inserted, 2 updated, 0 kept.
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) UpsertProgress(ctx context.Context, p domain.GameProgress) error {
	_, err := r.db.ExecContext(ctx, upsertProgressSQL,
		p.UserID, p.ExperienceID, p.LastScore, p.Completed, p.LastPlayedAt.UTC())
	return err
}

func (r *Repo) ListScores(ctx context.Context, userID, experienceID string) ([]domain.GameScore, error) {
	rows, err := r.db.QueryContext(ctx, listScoresSQL, userID, experienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.GameScore, 0, 1)
	for rows.Next() {
		var s domain.GameScore
		var grants []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExperienceID, &s.Score, &s.Completed,
			&grants, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.RewardsEarned = []domain.RewardGrant{}
		if len(grants) > 0 {
			if err := json.Unmarshal(grants, &s.RewardsEarned); err != nil {
				return nil, fmt.Errorf("decode rewards of score %s: %w", s.ID, err)
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CountCompletedGames(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countCompletedGamesSQL, userID).Scan(&n)
	return n, err
}
