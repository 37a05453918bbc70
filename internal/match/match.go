// Package match narrows a list of note paths down to the ones matching a
// fuzzy pattern.
package match

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Scorer scores a candidate against a pattern. ok is false when the pattern
// characters cannot be aligned, in order, within the candidate.
type Scorer interface {
	Score(candidate, pattern string) (score int, ok bool)
}

// Target picks the part of a path that is matched against the pattern.
type Target func(path string) string

// FullPath matches against the whole path.
func FullPath(path string) string { return path }

// BaseName matches against the file name only.
func BaseName(path string) string { return filepath.Base(path) }

// Match is a candidate that passed the scorer.
type Match struct {
	Path  string
	Score int
	// Index is the candidate's position in the input.
	Index int
}

// Selector filters candidates with a Scorer.
type Selector struct {
	Scorer Scorer
	Target Target
}

// Default returns a Selector using FuzzyScorer over full paths.
func Default() Selector {
	return Selector{Scorer: FuzzyScorer{}, Target: FullPath}
}

// Select returns the candidates matching pattern, in input order.
func Select(candidates []string, pattern string) []string {
	return Default().Select(candidates, pattern)
}

// Select returns the candidates matching pattern, in input order. An empty
// pattern matches every candidate.
func (s Selector) Select(candidates []string, pattern string) []string {
	matches := s.matches(candidates, pattern)
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	return paths
}

// Rank returns the matching candidates by descending score. Equal scores
// keep input order.
func (s Selector) Rank(candidates []string, pattern string) []Match {
	matches := s.matches(candidates, pattern)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func (s Selector) matches(candidates []string, pattern string) []Match {
	scorer := s.Scorer
	if scorer == nil {
		scorer = FuzzyScorer{}
	}
	target := s.Target
	if target == nil {
		target = FullPath
	}

	matches := make([]Match, 0, len(candidates))
	for i, c := range candidates {
		score, ok := scorer.Score(target(c), pattern)
		if !ok {
			continue
		}
		matches = append(matches, Match{Path: c, Score: score, Index: i})
	}
	return matches
}

// NewScorer returns the scorer registered under name ("fuzzy" or
// "subsequence"). An empty name selects "fuzzy".
func NewScorer(name string) (Scorer, error) {
	switch name {
	case "", "fuzzy":
		return FuzzyScorer{}, nil
	case "subsequence":
		return SubsequenceScorer{}, nil
	default:
		return nil, fmt.Errorf("invalid matcher: %s (valid values: fuzzy, subsequence)", name)
	}
}

// NewTarget returns the match target for name ("path" or "name"). An empty
// name selects "path".
func NewTarget(name string) (Target, error) {
	switch name {
	case "", "path":
		return FullPath, nil
	case "name":
		return BaseName, nil
	default:
		return nil, fmt.Errorf("invalid match target: %s (valid values: path, name)", name)
	}
}
