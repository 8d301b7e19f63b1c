package fuzzy

import "testing"

func TestProcess(t *testing.T) {
	tests := map[string]string{
		"  Innova ":        "innova",
		"new YORK mets!!":  "new york mets",
		"Star-Destroyer":   "star destroyer",
		"!!!":              "",
		"disc_golf":        "disc_golf",
		"Ünïcode Plastic.": "ünïcode plastic",
	}
	for in, want := range tests {
		if got := Process(in); got != want {
			t.Fatalf("Process(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScorers(t *testing.T) {
	tests := []struct {
		a, b                                  string
		ratio, partial, tsort, tset, weighted int
	}{
		{"Innova", "Innova", 100, 100, 100, 100, 100},
		{"Innova", "Destroyer", 13, 17, 13, 13, 15},
		{"Innova", "Discraft", 29, 33, 29, 29, 29},
		{"Innova", "Buzzz", 0, 0, 0, 0, 0},
		{"zzz", "Buzzz", 75, 100, 75, 75, 90},
		{"Nonexistent", "Destroyer", 40, 44, 40, 40, 40},
		{"destroyer innova", "Innova Destroyer", 56, 72, 100, 100, 95},
		{"Star Destroyer", "Destroyer", 78, 100, 78, 100, 90},
		{"new york mets", "new YORK mets!!", 100, 100, 100, 100, 100},
		{"fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 91, 91, 100, 100, 95},
		{"Buzz", "Buzzz", 89, 100, 89, 89, 89},
		{"Innova", "Innova Champion", 57, 100, 57, 100, 90},
		{"mvp", "MVP Disc Sports", 33, 100, 33, 100, 90},
	}

	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.ratio {
			t.Fatalf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.ratio)
		}
		if got := PartialRatio(tt.a, tt.b); got != tt.partial {
			t.Fatalf("PartialRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.partial)
		}
		if got := TokenSortRatio(tt.a, tt.b); got != tt.tsort {
			t.Fatalf("TokenSortRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.tsort)
		}
		if got := TokenSetRatio(tt.a, tt.b); got != tt.tset {
			t.Fatalf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.tset)
		}
		if got := WeightedRatio(tt.a, tt.b); got != tt.weighted {
			t.Fatalf("WeightedRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.weighted)
		}
	}
}

func TestScorersAreCaseInsensitiveAndSymmetricOnIdentity(t *testing.T) {
	for _, s := range []Scorer{ScorerFunc(Ratio), ScorerFunc(PartialRatio), ScorerFunc(TokenSortRatio), ScorerFunc(TokenSetRatio), ScorerFunc(WeightedRatio)} {
		if got := s.Score("DISCRAFT", "discraft"); got != 100 {
			t.Fatalf("expected case-insensitive identity to score 100, got %d", got)
		}
	}
}

func TestEmptyInputScoresZero(t *testing.T) {
	for _, s := range []Scorer{ScorerFunc(Ratio), ScorerFunc(PartialRatio), ScorerFunc(TokenSortRatio), ScorerFunc(TokenSetRatio), ScorerFunc(WeightedRatio)} {
		if got := s.Score("", "Innova"); got != 0 {
			t.Fatalf("expected empty query to score 0, got %d", got)
		}
		if got := s.Score("!!!", "Innova"); got != 0 {
			t.Fatalf("expected punctuation-only query to score 0, got %d", got)
		}
	}
}

func TestIdenticalInputScoresFullEvenWithoutLetters(t *testing.T) {
	for _, s := range []Scorer{ScorerFunc(Ratio), ScorerFunc(PartialRatio), ScorerFunc(TokenSortRatio), ScorerFunc(TokenSetRatio), ScorerFunc(WeightedRatio)} {
		if got := s.Score("!!!", "!!!"); got != 100 {
			t.Fatalf("expected identical punctuation to score 100, got %d", got)
		}
		if got := s.Score(" ?? ", "??"); got != 100 {
			t.Fatalf("expected identical punctuation modulo spacing to score 100, got %d", got)
		}
		if got := s.Score("!!!", "???"); got != 0 {
			t.Fatalf("expected different punctuation to score 0, got %d", got)
		}
		if got := s.Score("   ", "   "); got != 0 {
			t.Fatalf("expected blank input to score 0, got %d", got)
		}
	}
}

func TestTrailingPunctuationIsFree(t *testing.T) {
	if got := WeightedRatio("Star Destroyer", "Star Destroyer!!"); got != 100 {
		t.Fatalf("WeightedRatio with trailing punctuation = %d, want 100", got)
	}
	if got := Ratio("Buzzz", "Buzzz."); got != 100 {
		t.Fatalf("Ratio with trailing punctuation = %d, want 100", got)
	}
}

func TestWeightedRatioKeepsNonASCII(t *testing.T) {
	if got := WeightedRatio("Ünïcode", "ünïcode plastic"); got != 90 {
		t.Fatalf("WeightedRatio over non-ASCII = %d, want 90", got)
	}
}

func TestParseScorer(t *testing.T) {
	for _, name := range []string{"", "weighted", "RATIO", "partial", "token_sort", " token_set "} {
		s, err := ParseScorer(name)
		if err != nil {
			t.Fatalf("ParseScorer(%q): %v", name, err)
		}
		if s.Score("Buzzz", "Buzzz") != 100 {
			t.Fatalf("scorer %q should rate identity as 100", name)
		}
	}

	s, _ := ParseScorer("ratio")
	if got := s.Score("zzz", "Buzzz"); got != 75 {
		t.Fatalf("ratio scorer returned %d, want 75", got)
	}

	if _, err := ParseScorer("levenshtein"); err == nil {
		t.Fatalf("expected unknown scorer to fail")
	}
}

func TestExtractPreservesChoiceOrder(t *testing.T) {
	matches, err := Extract("zzz", []string{"Innova", "Buzzz", "Buzzz"}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	want := []Match{
		{Choice: "Innova", Score: 0, Index: 0},
		{Choice: "Buzzz", Score: 90, Index: 1},
		{Choice: "Buzzz", Score: 90, Index: 2},
	}
	for i := range want {
		if matches[i] != want[i] {
			t.Fatalf("match %d = %+v, want %+v", i, matches[i], want[i])
		}
	}

	if got, err := Extract("zzz", nil, nil); err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result for no choices")
	}
}
