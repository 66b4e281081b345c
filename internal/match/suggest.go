package match

import (
	"sort"

	"github.com/samber/lo"
)

// DefaultSuggestionThreshold is the minimum similarity for a suggestion.
const DefaultSuggestionThreshold = 0.6

// Suggestion is a candidate name ranked by similarity.
type Suggestion struct {
	Name  string
	Score float64 // Normalized Levenshtein similarity (0-1)
}

// RankNames scores every candidate against name, best first. Ties are
// broken by candidate name for determinism.
func RankNames(name string, candidates []string) []Suggestion {
	ranked := lo.Map(lo.Uniq(candidates), func(c string, _ int) Suggestion {
		return Suggestion{Name: c, Score: NormalizedLevenshteinScore(name, c)}
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}

// Suggest returns up to limit candidates at or above
// DefaultSuggestionThreshold, best first, excluding name itself.
func Suggest(name string, candidates []string, limit int) []string {
	var out []string
	for _, s := range RankNames(name, candidates) {
		if len(out) == limit || s.Score < DefaultSuggestionThreshold {
			break
		}

		if s.Name != name {
			out = append(out, s.Name)
		}
	}

	return out
}
