package app

import (
	"context"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
)

type RewardService struct {
	bookings domain.BookingRepository
	games    domain.GameRepository
}

func NewRewardService(b domain.BookingRepository, g domain.GameRepository) *RewardService {
	return &RewardService{bookings: b, games: g}
}

type RewardsView struct {
	Progress loyalty.Progress `json:"progress"`
	Rewards  []loyalty.Status `json:"rewards"`
}

func (s *RewardService) ForUser(ctx context.Context, userID string) (RewardsView, error) {
	nb, err := s.bookings.CountUserBookings(ctx, userID)
	if err != nil {
		return RewardsView{}, err
	}
	ng, err := s.games.CountCompletedGames(ctx, userID)
	if err != nil {
		return RewardsView{}, err
	}
	p := loyalty.Progress{Bookings: nb, Games: ng}
	return RewardsView{Progress: p, Rewards: loyalty.Evaluate(loyalty.Catalog, p)}, nil
}
