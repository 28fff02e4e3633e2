package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// Field aliases seen across partner feeds. The first non-empty match wins.
var experienceAliases = map[string][]string{
	"title":       {"title", "name", "activity_name", "translations.fr.title"},
	"description": {"description", "summary", "details", "translations.fr.description"},
	"location":    {"location", "city", "location.name", "address.city", "region"},
	"image":       {"image_url", "imageUrl", "image", "cover.url", "photo"},
	"price":       {"price", "price.amount", "price_per_person", "amount"},
	"duration":    {"duration", "duration_minutes", "durationMinutes", "length"},
	"capacity":    {"capacity", "max_participants", "group_size", "maxPeople"},
	"difficulty":  {"difficulty", "level", "difficulty_level"},
	"game":        {"game_id", "gameId", "game.id"},
	"created":     {"created_at", "createdAt", "published_at"},
}

func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstString(m map[string]any, key string) string {
	for _, p := range experienceAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstInt(m map[string]any, key string) int {
	for _, p := range experienceAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// firstCents reads a currency amount (number or "45,50" style string) as cents.
func firstCents(m map[string]any, key string) int64 {
	for _, p := range experienceAliases[key] {
		var d decimal.Decimal
		switch v := lookupAny(m, p).(type) {
		case float64:
			d = decimal.NewFromFloat(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			parsed, err := decimal.NewFromString(s)
			if err != nil {
				continue
			}
			d = parsed
		default:
			continue
		}
		cents := d.Shift(2).Round(0)
		if !cents.BigInt().IsInt64() {
			// negative so Validate rejects the record instead of importing it as free
			return -1
		}
		return cents.IntPart()
	}
	return 0
}

func mapDifficulty(s string) domain.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "facile", "beginner":
		return domain.DifficultyEasy
	case "moderate", "medium", "modéré", "modere", "intermediate":
		return domain.DifficultyModerate
	case "challenging", "hard", "difficile", "expert":
		return domain.DifficultyChallenging
	}
	return domain.Difficulty(strings.ToLower(s))
}

// mapFeatures accepts either [{type,name}] objects or the split
// included/not_included string lists.
func mapFeatures(p map[string]any) []domain.Feature {
	var out []domain.Feature
	if raw, ok := p["features"].([]any); ok {
		for _, it := range raw {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name, _ := obj["name"].(string)
			typ, _ := obj["type"].(string)
			if name == "" {
				continue
			}
			ft := domain.FeatureIncluded
			if typ == string(domain.FeatureNotIncluded) {
				ft = domain.FeatureNotIncluded
			}
			out = append(out, domain.Feature{Type: ft, Name: name})
		}
	}
	for _, ft := range []domain.FeatureType{domain.FeatureIncluded, domain.FeatureNotIncluded} {
		raw, _ := p[string(ft)].([]any)
		for _, it := range raw {
			if s, ok := it.(string); ok && s != "" {
				out = append(out, domain.Feature{Type: ft, Name: s})
			}
		}
	}
	return out
}

func mapDates(p map[string]any, capacity int) []domain.AvailableDate {
	raw, _ := lookupAny(p, "available_dates").([]any)
	if raw == nil {
		raw, _ = lookupAny(p, "dates").([]any)
	}
	out := make([]domain.AvailableDate, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			out = append(out, domain.AvailableDate{Date: domain.DateKey(t), SpotsLeft: capacity})
		case map[string]any:
			d, _ := t["date"].(string)
			if d == "" {
				continue
			}
			spots := capacity
			if v, ok := t["spots_left"].(float64); ok {
				spots = int(v)
			} else if v, ok := t["spotsLeft"].(float64); ok {
				spots = int(v)
			}
			out = append(out, domain.AvailableDate{Date: domain.DateKey(d), SpotsLeft: spots})
		}
	}
	return out
}

// feedNamespace scopes the name-based ids derived from partner feed keys.
var feedNamespace = uuid.MustParse("6f1c2a4e-3b8d-5e0f-9a7c-41d2e8b05c93")

// experienceID keeps feed ids that are already uuids and derives a stable one
// otherwise, so re-importing the same entry updates it in place. Positional
// keys ("#3") have no identity of their own and hash title and location.
func experienceID(feedID string, e domain.Experience) string {
	if u, err := uuid.Parse(feedID); err == nil {
		return u.String()
	}
	name := feedID
	if strings.HasPrefix(feedID, "#") {
		name = strings.ToLower(e.Title + "|" + e.Location)
	}
	return uuid.NewSHA1(feedNamespace, []byte(name)).String()
}

// mapExperience turns a feed payload into an Experience. The result is
// normalized but not validated.
func mapExperience(id string, p map[string]any, now time.Time) domain.Experience {
	e := domain.Experience{
		Title:       firstString(p, "title"),
		Description: firstString(p, "description"),
		Location:    firstString(p, "location"),
		ImageURL:    firstString(p, "image"),
		PriceCents:  firstCents(p, "price"),
		Duration:    firstInt(p, "duration"),
		Capacity:    firstInt(p, "capacity"),
		Difficulty:  mapDifficulty(firstString(p, "difficulty")),
		Features:    mapFeatures(p),
		CreatedAt:   now,
	}
	e.ID = experienceID(id, e)
	if g := firstString(p, "game"); g != "" {
		e.HasGame = true
		e.GameID = &g
	} else if b, ok := p["has_game"].(bool); ok {
		e.HasGame = b
	}
	if c := firstString(p, "created"); c != "" {
		if t, err := time.Parse(time.RFC3339, c); err == nil {
			e.CreatedAt = t.UTC()
		} else {
			log.Debug().Str("experience_id", e.ID).Str("created_at", c).Msg("unparseable created_at, using import time")
		}
	}
	e.AvailableDates = mapDates(p, e.Capacity)
	e.Normalize()
	return e
}
