// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|2\d{3})\b`)

	monthNames = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// format renders the date with the precision the record provides:
// "2024", "2024-03" or "2024-03-15". MedlineDate values such as
// "2023 Nov-Dec" yield year and first month.
func (d dateElement) format() string {
	year := strings.TrimSpace(d.Year)
	month := strings.TrimSpace(d.Month)
	day := strings.TrimSpace(d.Day)

	if year == "" && d.MedlineDate != "" {
		md := strings.TrimSpace(d.MedlineDate)
		year = yearPattern.FindString(md)
		if year != "" {
			rest := strings.TrimSpace(md[strings.Index(md, year)+len(year):])
			month = rest
		}
		day = ""
	}
	if year == "" {
		return ""
	}

	m := parseMonth(month)
	if m == 0 {
		return year
	}
	out := fmt.Sprintf("%s-%02d", year, m)

	if dd, err := strconv.Atoi(day); err == nil && dd >= 1 && dd <= 31 {
		out += fmt.Sprintf("-%02d", dd)
	}
	return out
}

// parseMonth accepts numeric months ("3", "03") and English names or
// abbreviations ("Mar", "March"). Unknown values return 0.
func parseMonth(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	if len(s) < 3 {
		return 0
	}
	return monthNames[strings.ToLower(s[:3])]
}
