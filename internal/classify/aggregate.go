// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Evaluate classifies every affiliation of every author of p and builds a
// report row. The boolean is false when no author has a non-academic
// affiliation; that is an ordinary outcome, not an error.
//
// Authors and affiliations are scanned in source order, which decides the
// first company seen and the corresponding email.
func (c *Classifier) Evaluate(p types.Paper) (types.ReportRow, bool) {
	row := types.ReportRow{
		PubmedID:        p.ID,
		Title:           p.Title,
		PublicationDate: p.PublicationDate,
	}

	authors := newOrderedSet(false)
	companies := newOrderedSet(true)
	qualifies := false

	for _, a := range p.Authors {
		nonAcademic := false
		for _, aff := range a.Affiliations {
			res := c.Classify(aff)
			if row.CorrespondingEmail == "" && res.Email != "" {
				row.CorrespondingEmail = res.Email
			}
			if !res.NonAcademic {
				continue
			}
			nonAcademic = true
			companies.add(res.CompanyName)
		}
		if nonAcademic {
			qualifies = true
			authors.add(a.Name)
		}
	}

	if !qualifies {
		return types.ReportRow{}, false
	}
	row.NonAcademicAuthors = authors.items
	row.CompanyAffiliations = companies.items
	return row, true
}

// EvaluateAll evaluates papers in order and returns the qualifying rows in
// the same relative order.
func (c *Classifier) EvaluateAll(papers []types.Paper) []types.ReportRow {
	var rows []types.ReportRow
	for _, p := range papers {
		if row, ok := c.Evaluate(p); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// orderedSet keeps the first-seen spelling of each distinct, non-empty value.
type orderedSet struct {
	fold  bool
	seen  map[string]bool
	items []string
}

func newOrderedSet(fold bool) *orderedSet {
	return &orderedSet{fold: fold, seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	key := v
	if s.fold {
		key = strings.ToLower(v)
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, v)
}
