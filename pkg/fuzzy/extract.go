package fuzzy

import (
	"fmt"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Match is a choice paired with its score against a query.
type Match struct {
	Choice string
	Score  int
	Index  int
}

// Extract scores query against every choice, preserving the order of choices.
// A nil scorer falls back to WeightedRatio.
func Extract(query string, choices []string, scorer Scorer) ([]Match, error) {
	if scorer == nil {
		scorer = ScorerFunc(WeightedRatio)
	}
	// Scorers normalize their own input, so the library's processor is a no-op.
	pairs, err := fuzzywuzzy.ExtractWithoutOrder(query, choices, passThrough, scorer.Score, 0)
	if err != nil {
		return nil, fmt.Errorf("fuzzy extract: %w", err)
	}
	out := make([]Match, 0, len(pairs))
	for i, pair := range pairs {
		out = append(out, Match{Choice: pair.Match, Score: pair.Score, Index: i})
	}
	return out, nil
}

func passThrough(s string) string { return s }
