// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [affiliation...]",
	Short: "Classify affiliation strings without querying PubMed",
	Long: `Classify runs the affiliation classifier on each argument, or on each
non-blank line of stdin when no arguments are given, and prints the verdict
with the indicator terms that matched. Useful for tuning a custom registry.`,
	Example: `  get-papers-list classify "Genentech, Inc., South San Francisco, CA"
  cut -f3 affiliations.tsv | get-papers-list classify --json`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	inputs := args
	if len(inputs) == 0 {
		var err error
		if inputs, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return errors.New("provide affiliation strings as arguments or on stdin")
	}

	c, err := newClassifier(cmd.Context(), viper.GetString("registry"))
	if err != nil {
		return err
	}

	results := make([]classify.Explanation, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, c.Explain(in))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	formatExplanations(out, results)
	return nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading stdin")
	}
	return lines, nil
}

func formatExplanations(w io.Writer, results []classify.Explanation) {
	for i, e := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		verdict := "academic"
		if e.Result.NonAcademic {
			verdict = "non-academic"
		}
		fmt.Fprintf(w, "%s\n", e.Text)
		fmt.Fprintf(w, "  verdict:  %s\n", verdict)
		if e.Result.CompanyName != "" {
			fmt.Fprintf(w, "  company:  %s\n", e.Result.CompanyName)
		}
		if e.Result.Email != "" {
			fmt.Fprintf(w, "  email:    %s\n", e.Result.Email)
		}
		if len(e.AcademicTerms) > 0 {
			fmt.Fprintf(w, "  academic: %s\n", strings.Join(e.AcademicTerms, ", "))
		}
		if len(e.CompanyTerms) > 0 {
			fmt.Fprintf(w, "  company terms: %s\n", strings.Join(e.CompanyTerms, ", "))
		}
	}
}
