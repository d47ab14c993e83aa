package synth

import (
	"sort"
	"strings"

	"github.com/ppiankov/specsynth/internal/extract"
	"github.com/ppiankov/specsynth/internal/model"
)

// dedupeKeyRunes is how much of a statement identifies a claim
const dedupeKeyRunes = 50

// DedupeKey is the lowercase of the statement's first 50 characters
func DedupeKey(c model.Claim) string {
	return strings.ToLower(extract.Truncate(c.Statement, dedupeKeyRunes))
}

// DedupeClaims keeps the first claim for each DedupeKey, in input order
func DedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	unique := make([]model.Claim, 0, len(claims))

	for _, c := range claims {
		key := DedupeKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}

	return unique
}

// FilterBySources keeps claims whose source path is one of sources
func FilterBySources(claims []model.Claim, sources []string) []model.Claim {
	allowed := make(map[string]bool, len(sources))
	for _, s := range sources {
		allowed[s] = true
	}

	var kept []model.Claim
	for _, c := range claims {
		if allowed[c.SourcePath] {
			kept = append(kept, c)
		}
	}
	return kept
}

// OrderClaims sorts claims by (source on spine, explicit intent), both
// descending. Ties keep their relative order.
func OrderClaims(claims []model.Claim, spine model.SpineSet) []model.Claim {
	ordered := make([]model.Claim, len(claims))
	copy(ordered, claims)

	rank := func(c model.Claim) int {
		r := 0
		if spine.Contains(c.SourcePath) {
			r += 2
		}
		if c.IsExplicit() {
			r++
		}
		return r
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i]) > rank(ordered[j])
	})
	return ordered
}

// byIntent returns at most limit claims with the given intent, in order
func byIntent(claims []model.Claim, intent model.NormativeIntent, limit int) []model.Claim {
	var out []model.Claim
	for _, c := range claims {
		if len(out) >= limit {
			break
		}
		if c.NormativeIntent == intent {
			out = append(out, c)
		}
	}
	return out
}

func head(claims []model.Claim, n int) []model.Claim {
	if n < 0 {
		n = 0
	}
	if len(claims) > n {
		return claims[:n]
	}
	return claims
}
