// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// prefixMarker turns a term into a prefix match: "pharmaceutical*" matches
// "pharmaceutical" and "pharmaceuticals".
const prefixMarker = "*"

type term struct {
	text   string
	prefix bool
}

// Match is one occurrence of a term in a string. Start and End are byte
// offsets into the searched string.
type Match struct {
	Term  string
	Start int
	End   int
}

// TermSet is an immutable list of lowercase indicator terms matched at word
// boundaries.
type TermSet struct {
	terms []term
}

func newTermSet(raw []string) TermSet {
	seen := make(map[string]bool, len(raw))
	var terms []term
	for _, s := range raw {
		s = strings.ToLower(strings.Join(strings.Fields(s), " "))
		prefix := strings.HasSuffix(s, prefixMarker)
		if prefix {
			s = strings.TrimSpace(strings.TrimSuffix(s, prefixMarker))
		}
		if s == "" {
			continue
		}
		key := s
		if prefix {
			key += prefixMarker
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, term{text: s, prefix: prefix})
	}
	return TermSet{terms: terms}
}

// Len returns the number of terms.
func (ts TermSet) Len() int { return len(ts.terms) }

// Terms returns the terms in document form, prefix terms carrying a
// trailing "*".
func (ts TermSet) Terms() []string {
	out := make([]string, len(ts.terms))
	for i, t := range ts.terms {
		out[i] = t.text
		if t.prefix {
			out[i] += prefixMarker
		}
	}
	return out
}

// Find returns every boundary-respecting occurrence of any term in s,
// ordered by start offset. s must already be lowercase.
func (ts TermSet) Find(s string) []Match {
	var matches []Match
	for _, t := range ts.terms {
		for from := 0; from < len(s); {
			idx := strings.Index(s[from:], t.text)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(t.text)
			if t.matchesAt(s, start, end) {
				matches = append(matches, Match{Term: t.text, Start: start, End: end})
			}
			from = start + 1
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// Contains reports whether any term occurs in s.
func (ts TermSet) Contains(s string) bool {
	for _, t := range ts.terms {
		for from := 0; from < len(s); {
			idx := strings.Index(s[from:], t.text)
			if idx < 0 {
				break
			}
			start := from + idx
			if t.matchesAt(s, start, start+len(t.text)) {
				return true
			}
			from = start + 1
		}
	}
	return false
}

// matchesAt checks the word boundaries around s[start:end]. Boundaries are
// only enforced next to letters and digits of the term itself, so "co."
// needs a boundary before the "c" but nothing after the dot.
func (t term) matchesAt(s string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(t.text)
	if isWordRune(first) && start > 0 {
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(before) {
			return false
		}
	}
	if t.prefix {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(t.text)
	if isWordRune(last) && end < len(s) {
		after, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(after) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
