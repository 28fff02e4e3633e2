// Package loyalty decides which rewards a user has earned: the discount
// unlocked by a game high score, and the static catalog of loyalty rewards.
package loyalty

import (
	"fmt"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

const (
	DefaultScoreThreshold  = 75
	DefaultDiscountPercent = 15
)

// Rule is the single game reward rule: reaching Threshold unlocks DiscountPercent off one booking.
type Rule struct {
	Threshold       int
	DiscountPercent int
}

func DefaultRule() Rule {
	return Rule{Threshold: DefaultScoreThreshold, DiscountPercent: DefaultDiscountPercent}
}

type GameReward struct {
	HasReward      bool `json:"hasReward"`
	RewardDiscount *int `json:"rewardDiscount"`
}

func (r Rule) Evaluate(highScore int) GameReward {
	if highScore < r.Threshold {
		return GameReward{}
	}
	pct := r.DiscountPercent
	return GameReward{HasReward: true, RewardDiscount: &pct}
}

// Grants is what gets stored on the score record when it qualifies.
func (r Rule) Grants(score int) []domain.RewardGrant {
	if score < r.Threshold {
		return []domain.RewardGrant{}
	}
	return []domain.RewardGrant{{
		Type:        "discount",
		Value:       r.DiscountPercent,
		Description: fmt.Sprintf("%d%% de réduction", r.DiscountPercent),
	}}
}

type RequirementType string

const (
	RequireBookings  RequirementType = "bookings"
	RequireGames     RequirementType = "games"
	RequireReferrals RequirementType = "referrals"
)

type Requirement struct {
	Type  RequirementType `json:"type"`
	Count int             `json:"count"`
}

type Reward struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Image          string      `json:"image"`
	Requirements   Requirement `json:"requirements"`
	ValidityPeriod string      `json:"validityPeriod"`
}

var Catalog = []Reward{
	{
		ID:             "free-guide",
		Title:          "Guide Touristique Gratuit",
		Description:    "Recevez un guide touristique numérique exclusif sur la destination de votre choix",
		Image:          "/reward-guide.jpg",
		Requirements:   Requirement{Type: RequireBookings, Count: 1},
		ValidityPeriod: "1 an",
	},
	{
		ID:             "discount-10",
		Title:          "Réduction de 10%",
		Description:    "Obtenez une réduction de 10% sur votre prochaine réservation d'expérience",
		Image:          "/reward-discount.jpg",
		Requirements:   Requirement{Type: RequireGames, Count: 3},
		ValidityPeriod: "6 mois",
	},
	{
		ID:             "private-tour",
		Title:          "Visite Privée",
		Description:    "Profitez d'une visite privée exclusive pour vous et jusqu'à 3 invités",
		Image:          "/reward-tour.jpg",
		Requirements:   Requirement{Type: RequireBookings, Count: 3},
		ValidityPeriod: "1 an",
	},
	{
		ID:             "premium-upgrade",
		Title:          "Surclassement Premium",
		Description:    "Bénéficiez d'un surclassement vers une expérience premium sans frais supplémentaires",
		Image:          "/reward-upgrade.jpg",
		Requirements:   Requirement{Type: RequireReferrals, Count: 2},
		ValidityPeriod: "6 mois",
	},
}

// Progress is what a user has done so far. Referrals are not tracked yet and stay 0.
type Progress struct {
	Bookings  int `json:"bookings"`
	Games     int `json:"games"`
	Referrals int `json:"referrals"`
}

func (p Progress) count(t RequirementType) int {
	switch t {
	case RequireBookings:
		return p.Bookings
	case RequireGames:
		return p.Games
	case RequireReferrals:
		return p.Referrals
	}
	return 0
}

type Status struct {
	Reward
	Progress int  `json:"progress"`
	Percent  int  `json:"percent"`
	Unlocked bool `json:"unlocked"`
}

func Evaluate(rewards []Reward, p Progress) []Status {
	out := make([]Status, 0, len(rewards))
	for _, r := range rewards {
		have := p.count(r.Requirements.Type)
		st := Status{Reward: r, Progress: min(have, r.Requirements.Count)}
		if r.Requirements.Count <= 0 {
			st.Percent, st.Unlocked = 100, true
		} else {
			st.Percent = min(100, have*100/r.Requirements.Count)
			st.Unlocked = have >= r.Requirements.Count
		}
		out = append(out, st)
	}
	return out
}
