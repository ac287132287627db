// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report maps report rows to the fixed six-column output schema and
// renders them as CSV, a console table, or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Columns is the output schema, in order.
var Columns = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// MultiValueSeparator joins author and company lists inside one field.
const MultiValueSeparator = "; "

// Record returns the fields of row in Columns order.
func Record(row types.ReportRow) []string {
	return []string{
		row.PubmedID,
		row.Title,
		row.PublicationDate,
		strings.Join(row.NonAcademicAuthors, MultiValueSeparator),
		strings.Join(row.CompanyAffiliations, MultiValueSeparator),
		row.CorrespondingEmail,
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case types.FormatCSV, types.FormatTable, types.FormatJSON:
		return f, nil
	case "":
		return types.FormatCSV, nil
	default:
		return "", errors.Errorf("unknown output format %q (want csv, table, or json)", s)
	}
}

// Write renders rows to w in the given format.
func Write(w io.Writer, format types.OutputFormat, rows []types.ReportRow) error {
	switch format {
	case types.FormatCSV, "":
		return WriteCSV(w, rows)
	case types.FormatTable:
		WriteTable(w, rows)
		return nil
	case types.FormatJSON:
		return WriteJSON(w, rows)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// WriteCSV writes a header row followed by one record per row. The header is
// written even when rows is empty.
func WriteCSV(w io.Writer, rows []types.ReportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		if err := writer.Write(Record(row)); err != nil {
			return errors.Wrapf(err, "writing csv row %s", row.PubmedID)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []types.ReportRow) error {
	if rows == nil {
		rows = []types.ReportRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteTable writes rows as a human-readable table.
func WriteTable(w io.Writer, rows []types.ReportRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No papers with non-academic authors found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-25s  %-30s  %s\n",
		"PMID", "Title", "Date", "Non-academic Authors", "Companies", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 150))

	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-25s  %-30s  %s\n",
			r.PubmedID,
			truncate(r.Title, 50),
			r.PublicationDate,
			truncate(strings.Join(r.NonAcademicAuthors, MultiValueSeparator), 25),
			truncate(strings.Join(r.CompanyAffiliations, MultiValueSeparator), 30),
			r.CorrespondingEmail)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(rows))
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
