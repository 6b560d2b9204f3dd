package source

import "unicode"

// Weights tunes fuzzy scoring.
type Weights struct {
	Base          int
	Consecutive   int
	WordBoundary  int
	Prefix        int
	ExactPrefix   int
	GapPenalty    int
	ShortTextBias int
}

// DefaultWeights returns the weights used by Words unless overridden.
func DefaultWeights() Weights {
	return Weights{
		Base:          100,
		Consecutive:   20,
		WordBoundary:  15,
		Prefix:        25,
		ExactPrefix:   50,
		GapPenalty:    2,
		ShortTextBias: 20,
	}
}

// match finds query in text as a case-insensitive subsequence, taking the
// earliest position for every rune. It returns the matched rune indices,
// or nil when query is not a subsequence of text.
func match(query, folded []rune) []int {
	if len(query) == 0 || len(query) > len(folded) {
		return nil
	}
	idx := make([]int, 0, len(query))
	qi := 0
	for ti, r := range folded {
		if r == query[qi] {
			idx = append(idx, ti)
			qi++
			if qi == len(query) {
				return idx
			}
		}
	}
	return nil
}

func (w Weights) score(query, original, folded []rune, matches []int) int {
	if len(matches) == 0 {
		return 0
	}

	s := w.Base
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += w.Consecutive
		}
	}
	for _, i := range matches {
		if boundary(original, i) {
			s += w.WordBoundary
		}
	}

	first := matches[0]
	if first == 0 {
		s += w.Prefix
	} else {
		s -= first
	}
	if gap := matches[len(matches)-1] - first - len(matches) + 1; gap > 0 {
		s -= gap * w.GapPenalty
	}
	if n := len(folded); n < w.ShortTextBias {
		s += w.ShortTextBias - n
	}
	if hasPrefix(folded, query) {
		s += w.ExactPrefix
	}
	return max(s, 1)
}

func hasPrefix(text, prefix []rune) bool {
	if len(prefix) > len(text) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}

// boundary reports whether runes[i] starts a word: the first rune, a rune
// after a space or punctuation, or an upper-case rune after a lower-case one.
func boundary(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	if i >= len(runes) {
		return false
	}
	prev, cur := runes[i-1], runes[i]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

func fold(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
