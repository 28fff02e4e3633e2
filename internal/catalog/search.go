package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/AyoubAchour/almindhar-experience/internal/domain"
)

// keywords maps a typed prefix to the words it should surface even when no
// token starts with it. Keep it small; it is a hand-curated list for the current catalog.
var keywords = []struct{ prefix, word string }{
	{"med", "médina"},
	{"sid", "sidi"},
	{"des", "désert"},
	{"car", "carthage"},
	{"djer", "djerba"},
	{"plon", "plongée"},
	{"tab", "tabarka"},
	{"tun", "tunis"},
	{"sah", "sahara"},
	{"fes", "festival"},
}

// Fold lower-cases s and strips diacritics, so "Médina" and "medina" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func anyTokenHasPrefix(s, prefix string) bool {
	for _, tok := range strings.Fields(s) {
		if strings.HasPrefix(tok, prefix) {
			return true
		}
	}
	return false
}

// MatchQuery reports whether e is a hit for an already folded, non-empty query.
func MatchQuery(e domain.Experience, q string) bool {
	title, loc := Fold(e.Title), Fold(e.Location)
	if strings.HasPrefix(title, q) || anyTokenHasPrefix(title, q) || anyTokenHasPrefix(loc, q) {
		return true
	}
	for _, k := range keywords {
		if !strings.HasPrefix(q, k.prefix) {
			continue
		}
		w := Fold(k.word)
		if strings.Contains(title, w) || strings.Contains(loc, w) {
			return true
		}
	}
	return false
}

// ApplySearch keeps the experiences whose title or location match query by
// prefix. A blank query returns the input unchanged.
func ApplySearch(in []domain.Experience, query string) []domain.Experience {
	q := Fold(query)
	if q == "" {
		return in
	}
	out := make([]domain.Experience, 0, len(in))
	for _, e := range in {
		if MatchQuery(e, q) {
			out = append(out, e)
		}
	}
	return out
}
