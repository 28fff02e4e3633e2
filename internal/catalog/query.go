package catalog

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// Query parameter names shared by Encode and Decode.
const (
	ParamQuery       = "q"
	ParamDifficulty  = "difficulty"
	ParamMinPrice    = "minPrice"
	ParamMaxPrice    = "maxPrice"
	ParamMinDuration = "minDuration"
	ParamMaxDuration = "maxDuration"
	ParamLocation    = "location"
	ParamSort        = "sort"
	ParamPage        = "page"
)

// Encode writes s as query parameters. Defaults are omitted so the empty
// state encodes to an empty string. Prices are written in currency units.
func Encode(s ViewState) url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(s.Query); q != "" {
		v.Set(ParamQuery, q)
	}
	if len(s.Filters.Difficulty) > 0 {
		ds := make([]string, 0, len(s.Filters.Difficulty))
		for _, d := range s.Filters.Difficulty {
			ds = append(ds, string(d))
		}
		slices.Sort(ds)
		v.Set(ParamDifficulty, strings.Join(ds, ","))
	}
	if p := s.Filters.Price.Min; p != nil {
		v.Set(ParamMinPrice, CentsToUnits(*p))
	}
	if p := s.Filters.Price.Max; p != nil {
		v.Set(ParamMaxPrice, CentsToUnits(*p))
	}
	if d := s.Filters.Duration.Min; d != nil {
		v.Set(ParamMinDuration, strconv.FormatInt(*d, 10))
	}
	if d := s.Filters.Duration.Max; d != nil {
		v.Set(ParamMaxDuration, strconv.FormatInt(*d, 10))
	}
	if s.Filters.Location != "" {
		v.Set(ParamLocation, s.Filters.Location)
	}
	if s.Sort != "" && s.Sort != SortNewest {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// Decode is the inverse of Encode. Missing parameters leave the default;
// malformed numbers or unknown difficulties are rejected.
func Decode(v url.Values) (ViewState, error) {
	s := NewViewState()
	s.Query = strings.TrimSpace(v.Get(ParamQuery))
	s.Filters.Location = strings.TrimSpace(v.Get(ParamLocation))
	s.Sort = ParseSortKey(v.Get(ParamSort))

	if raw := v.Get(ParamDifficulty); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			d := domain.Difficulty(strings.TrimSpace(part))
			if d == "" {
				continue
			}
			if !d.Valid() {
				return ViewState{}, domain.Invalid("unknown difficulty %q", d)
			}
			if !slices.Contains(s.Filters.Difficulty, d) {
				s.Filters.Difficulty = append(s.Filters.Difficulty, d)
			}
		}
	}

	var err error
	if s.Filters.Price.Min, err = parseUnits(v, ParamMinPrice); err != nil {
		return ViewState{}, err
	}
	if s.Filters.Price.Max, err = parseUnits(v, ParamMaxPrice); err != nil {
		return ViewState{}, err
	}
	if s.Filters.Duration.Min, err = parseInt(v, ParamMinDuration); err != nil {
		return ViewState{}, err
	}
	if s.Filters.Duration.Max, err = parseInt(v, ParamMaxDuration); err != nil {
		return ViewState{}, err
	}

	if raw := v.Get(ParamPage); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return ViewState{}, domain.Invalid("page must be a positive integer")
		}
		s.Page = p
	}
	return s, nil
}

// CentsToUnits renders minor units as a plain decimal amount, e.g. 4550 -> "45.5".
func CentsToUnits(cents int64) string {
	return decimal.New(cents, -2).String()
}

// UnitsToCents parses a currency amount and rounds it half-up to minor units.
// Amounts whose cents do not fit in an int64 are rejected.
func UnitsToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", s)
	}
	return cents.IntPart(), nil
}

func parseUnits(v url.Values, key string) (*int64, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	c, err := UnitsToCents(raw)
	if err != nil || c < 0 {
		return nil, domain.Invalid("%s must be a non-negative amount", key)
	}
	return &c, nil
}

func parseInt(v url.Values, key string) (*int64, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return nil, domain.Invalid("%s must be a non-negative integer", key)
	}
	return &n, nil
}
