package match

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// FuzzyScorer scores with github.com/sahilm/fuzzy. Matching is case
// insensitive and favours adjacent characters and word starts.
type FuzzyScorer struct{}

// Score implements Scorer.
func (FuzzyScorer) Score(candidate, pattern string) (int, bool) {
	if pattern == "" {
		return 0, true
	}
	// sahilm/fuzzy indexes past the pattern on NUL bytes.
	if strings.IndexByte(candidate, 0) >= 0 || strings.IndexByte(pattern, 0) >= 0 {
		return SubsequenceScorer{}.Score(candidate, pattern)
	}
	matches := fuzzy.Find(pattern, []string{candidate})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}

// Bonuses used by SubsequenceScorer.
const (
	bonusMatch       = 1
	bonusConsecutive = 10
	bonusStart       = 15
	bonusSeparator   = 10
)

// SubsequenceScorer is a greedy left-to-right subsequence matcher with smart
// case: the comparison ignores case unless the pattern has an upper-case
// letter.
type SubsequenceScorer struct{}

// Score implements Scorer.
func (SubsequenceScorer) Score(candidate, pattern string) (int, bool) {
	want := []rune(pattern)
	if len(want) == 0 {
		return 0, true
	}

	fold := !hasUpper(want)
	if fold {
		for i, r := range want {
			want[i] = unicode.ToLower(r)
		}
	}

	score := 0
	pi := 0
	prevMatch := -2
	prev := rune(0)
	i := 0
	for _, r := range candidate {
		if pi == len(want) {
			break
		}
		c := r
		if fold {
			c = unicode.ToLower(r)
		}
		if c == want[pi] {
			score += bonusMatch
			if prevMatch == i-1 {
				score += bonusConsecutive
			}
			if i == 0 {
				score += bonusStart
			} else if isSeparator(prev) {
				score += bonusSeparator
			}
			prevMatch = i
			pi++
		}
		prev = r
		i++
	}

	if pi < len(want) {
		return 0, false
	}
	return score, true
}

func hasUpper(rs []rune) bool {
	for _, r := range rs {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	switch r {
	case '/', '\\', '-', '_', ' ', '.':
		return true
	}
	return false
}
