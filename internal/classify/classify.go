// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether author affiliations belong to commercial
// organizations and aggregates those verdicts per paper.
//
// Classification is keyword based. Academic indicators mark an affiliation as
// academic, company indicators mark it as non-academic, and a company
// indicator wins when both occur in the same string. The Classifier holds no
// mutable state and is safe for concurrent use.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/get-papers-list/internal/registry"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Classifier applies a Registry to affiliation strings.
type Classifier struct {
	reg *registry.Registry
}

// New returns a Classifier backed by reg.
func New(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Registry returns the registry the classifier was built with.
func (c *Classifier) Registry() *registry.Registry { return c.reg }

// Explanation is a classification together with the indicator terms that
// produced it.
type Explanation struct {
	Text          string                     `json:"text" yaml:"text"`
	Result        types.ClassificationResult `json:"result" yaml:"result"`
	AcademicTerms []string                   `json:"academic_terms,omitempty" yaml:"academic_terms,omitempty"`
	CompanyTerms  []string                   `json:"company_terms,omitempty" yaml:"company_terms,omitempty"`
}

// Classify returns the verdict for one affiliation string. It never fails:
// empty or unrecognizable input yields the zero result.
func (c *Classifier) Classify(text string) types.ClassificationResult {
	return c.Explain(text).Result
}

// Explain classifies text and reports which terms matched.
func (c *Classifier) Explain(text string) Explanation {
	exp := Explanation{Text: text}
	if normalize(text) == "" {
		return exp
	}

	// Email is taken from the original text, before lowercasing.
	exp.Result.Email = c.reg.EmailPattern().FindString(text)

	scan := c.scanForm(text)
	exp.AcademicTerms = termNames(c.reg.Academic().Find(scan))
	exp.CompanyTerms = termNames(c.reg.Company().Find(scan))

	// Company indicators override academic ones.
	if len(exp.CompanyTerms) > 0 {
		exp.Result.NonAcademic = true
		exp.Result.CompanyName = c.companyName(text)
	}
	return exp
}

// scanForm lowercases s, collapses whitespace and blanks out email tokens so
// that a domain such as "pharma.com" is not read as a company indicator.
func (c *Classifier) scanForm(s string) string {
	s = normalize(s)
	return c.reg.EmailPattern().ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

type segment struct {
	raw   string
	delim string // delimiter that preceded this segment, "" for the first
}

// companyName picks the shortest comma- or semicolon-delimited segment of
// text that contains a company indicator. A segment holding nothing but
// legal forms ("Inc." in "Genentech, Inc.") is joined to its predecessor.
func (c *Classifier) companyName(text string) string {
	segs := splitSegments(text)

	best := ""
	bestLen := 0
	for i, seg := range segs {
		scan := c.scanForm(seg.raw)
		if !c.reg.Company().Contains(scan) {
			continue
		}

		name := c.clean(seg.raw)
		if i > 0 && onlyLegalForms(scan, c.reg.LegalForms().Find(scan)) {
			if prev := c.clean(segs[i-1].raw); prev != "" {
				name = prev + seg.delim + " " + name
			}
		}
		if name == "" {
			continue
		}

		n := utf8.RuneCountInString(name)
		if best == "" || n < bestLen {
			best, bestLen = name, n
		}
	}

	if best == "" {
		best = c.clean(text)
	}
	return best
}

// clean strips email tokens and surrounding whitespace from a segment.
func (c *Classifier) clean(s string) string {
	s = c.reg.EmailPattern().ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// splitSegments splits s on commas and semicolons, remembering the delimiter
// in front of each segment.
func splitSegments(s string) []segment {
	var segs []segment
	delim := ""
	start := 0
	for i, r := range s {
		if r != ',' && r != ';' {
			continue
		}
		segs = append(segs, segment{raw: s[start:i], delim: delim})
		delim = string(r)
		start = i + 1
	}
	return append(segs, segment{raw: s[start:], delim: delim})
}

// onlyLegalForms reports whether scan holds no letters or digits outside the
// matched terms.
func onlyLegalForms(scan string, matches []registry.Match) bool {
	if len(matches) == 0 {
		return false
	}
	covered := make([]bool, len(scan))
	for _, m := range matches {
		for i := m.Start; i < m.End; i++ {
			covered[i] = true
		}
	}
	for i, r := range scan {
		if covered[i] {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalize lowercases s and collapses runs of whitespace to one space.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func termNames(matches []registry.Match) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if seen[m.Term] {
			continue
		}
		seen[m.Term] = true
		names = append(names, m.Term)
	}
	return names
}
