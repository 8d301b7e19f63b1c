// Package fuzzy scores how closely two short strings match on a 0-100 scale.
// Scoring is delegated to go-fuzzywuzzy; this package owns normalization and
// the named scorer set the search service can be configured with.
package fuzzy

import (
	"fmt"
	"strings"
	"unicode"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

const (
	ScorerWeighted  = "weighted"
	ScorerRatio     = "ratio"
	ScorerPartial   = "partial"
	ScorerTokenSort = "token_sort"
	ScorerTokenSet  = "token_set"
)

// Scorer rates the similarity of two strings as an integer in [0, 100].
type Scorer interface {
	Score(a, b string) int
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b string) int

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) int {
	return f(a, b)
}

// ParseScorer resolves a configured scorer name. Empty input selects WeightedRatio.
func ParseScorer(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScorerWeighted:
		return ScorerFunc(WeightedRatio), nil
	case ScorerRatio:
		return ScorerFunc(Ratio), nil
	case ScorerPartial:
		return ScorerFunc(PartialRatio), nil
	case ScorerTokenSort:
		return ScorerFunc(TokenSortRatio), nil
	case ScorerTokenSet:
		return ScorerFunc(TokenSetRatio), nil
	default:
		return nil, fmt.Errorf("unknown fuzzy scorer %q", name)
	}
}

// Process lower-cases s, replaces every rune that is not a letter, digit or
// underscore with a space, and trims the ends.
//
// fuzzywuzzy.Cleanse trims before folding, so trailing punctuation would
// survive as spaces and cost points against the unpunctuated form.
func Process(s string) string {
	folded := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, s)
	return strings.TrimSpace(strings.ToLower(folded))
}

// Ratio is the plain edit-distance similarity of the normalized strings.
func Ratio(a, b string) int {
	return normalized(a, b, fuzzywuzzy.Ratio)
}

// PartialRatio scores the best-matching window of the longer string against the shorter one.
func PartialRatio(a, b string) int {
	return normalized(a, b, fuzzywuzzy.PartialRatio)
}

// TokenSortRatio ignores word order by sorting tokens before comparing.
func TokenSortRatio(a, b string) int {
	return normalized(a, b, func(x, y string) int { return fuzzywuzzy.TokenSortRatio(x, y) })
}

// PartialTokenSortRatio is TokenSortRatio using the partial comparison.
func PartialTokenSortRatio(a, b string) int {
	return normalized(a, b, func(x, y string) int { return fuzzywuzzy.PartialTokenSortRatio(x, y) })
}

// TokenSetRatio compares the shared tokens against each side's remainder,
// so extra words on one side cost little.
func TokenSetRatio(a, b string) int {
	return normalized(a, b, func(x, y string) int { return fuzzywuzzy.TokenSetRatio(x, y) })
}

// PartialTokenSetRatio is TokenSetRatio using the partial comparison.
func PartialTokenSetRatio(a, b string) int {
	return normalized(a, b, func(x, y string) int { return fuzzywuzzy.PartialTokenSetRatio(x, y) })
}

// WeightedRatio picks the best of the plain, partial and token scores, scaling
// down the partial and token variants depending on how different the lengths are.
// Non-ASCII runes are kept.
func WeightedRatio(a, b string) int {
	return normalized(a, b, fuzzywuzzy.UWRatio)
}

// normalized scores the processed forms of a and b. Strings equal up to case
// and surrounding whitespace always score 100, even when nothing survives
// processing; otherwise an empty processed side scores 0.
func normalized(a, b string, score func(string, string) int) int {
	ta, tb := strings.TrimSpace(a), strings.TrimSpace(b)
	if ta != "" && strings.EqualFold(ta, tb) {
		return 100
	}
	pa, pb := Process(a), Process(b)
	if pa == "" || pb == "" {
		return 0
	}
	return score(pa, pb)
}
