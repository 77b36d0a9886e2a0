// Package fuzzy finds close string matches by sequence similarity.
package fuzzy

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio for a match to be offered.
const DefaultCutoff = 0.6

// Match is a candidate with its similarity score.
type Match struct {
	Value string
	Score float64
	Index int
}

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1].
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(split(a), split(b)).Ratio()
}

// CloseMatches returns up to n candidates whose similarity to word is at
// least cutoff, best first.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	matches := Rank(word, candidates, cutoff)
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Value)
	}
	return out
}

// Best returns the single closest candidate at or above cutoff.
func Best(word string, candidates []string, cutoff float64) (string, bool) {
	matches := CloseMatches(word, candidates, 1, cutoff)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Rank scores every candidate against word and returns those at or above
// cutoff, sorted by descending score, then by descending value.
func Rank(word string, candidates []string, cutoff float64) []Match {
	if len(candidates) == 0 {
		return nil
	}

	m := difflib.NewMatcher(nil, split(word))
	var matches []Match
	for i, c := range candidates {
		m.SetSeq1(split(c))
		// Cheap upper bounds first; both are >= Ratio.
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		matches = append(matches, Match{Value: c, Score: score, Index: i})
	}

	// Equal scores rank the lexically greater candidate first.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Value > matches[j].Value
	})
	return matches
}

// split turns s into one element per rune, the unit the matcher compares.
func split(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
