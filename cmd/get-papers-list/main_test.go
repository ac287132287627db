// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/registry"
	"github.com/pdiddy/get-papers-list/internal/report"
	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	for _, k := range []string{"NCBI_API_KEY", "NCBI_EMAIL", "GET_PAPERS_LIST_FETCH_API_KEY", "GET_PAPERS_LIST_FETCH_MAX_RESULTS"} {
		t.Setenv(k, "")
	}
	v := viper.New()
	setupEnv(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Fetch.MaxResults)
	assert.Equal(t, 100, cfg.Fetch.BatchSize)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", cfg.Fetch.BaseURL)
	assert.Equal(t, types.FormatCSV, cfg.Report.Format)
	assert.Empty(t, cfg.Report.OutputFile)
	assert.Empty(t, cfg.Fetch.APIKey)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigEnv(t *testing.T) {
	v := newTestViper(t)
	t.Setenv("NCBI_API_KEY", "from-env")
	t.Setenv("GET_PAPERS_LIST_FETCH_MAX_RESULTS", "25")

	cfg, err := loadConfig(v, map[string]string{secrets.NCBIAPIKey: "from-file"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Fetch.APIKey)
	assert.Equal(t, 25, cfg.Fetch.MaxResults)
}

func TestLoadConfigSecretsFallback(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t), map[string]string{
		secrets.NCBIAPIKey: "from-file",
		secrets.NCBIEmail:  "ops@example.org",
	})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Fetch.APIKey)
	assert.Equal(t, "ops@example.org", cfg.Fetch.Email)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "get-papers-list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug: true
registry: custom.yaml
fetch:
  max_results: 7
  timeout: 5s
  concurrency: 4
report:
  format: json
  file: out.json
`), 0o644))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "custom.yaml", cfg.RegistryFile)
	assert.Equal(t, 7, cfg.Fetch.MaxResults)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, types.FormatJSON, cfg.Report.Format)
	assert.Equal(t, "out.json", cfg.Report.OutputFile)
}

func TestLoadConfigRejectsNonPositiveMax(t *testing.T) {
	v := newTestViper(t)
	v.Set("fetch.max_results", 0)
	_, err := loadConfig(v, nil)
	assert.ErrorContains(t, err, "max-results")
}

func TestWriteReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	rows := []types.ReportRow{{
		PubmedID:            "38000001",
		Title:               "A study",
		PublicationDate:     "2024-03",
		NonAcademicAuthors:  []string{"Jane Smith"},
		CompanyAffiliations: []string{"Moderna Inc."},
		CorrespondingEmail:  "jsmith@moderna.com",
	}}

	var stdout bytes.Buffer
	require.NoError(t, writeReport(context.Background(), &stdout, path, types.FormatCSV, rows))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(report.Columns, ","), lines[0])
	assert.Equal(t, "38000001,A study,2024-03,Jane Smith,Moderna Inc.,jsmith@moderna.com", lines[1])
}

func TestWriteReportToStdout(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, writeReport(context.Background(), &stdout, "", types.FormatCSV, nil))
	assert.Equal(t, strings.Join(report.Columns, ",")+"\n", stdout.String())
}

func TestNewClassifierMissingRegistry(t *testing.T) {
	_, err := newClassifier(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("Pfizer Inc.\n\n  Harvard University  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pfizer Inc.", "Harvard University"}, lines)
}

func TestFormatExplanations(t *testing.T) {
	c := classify.New(registry.Default())
	var buf bytes.Buffer
	formatExplanations(&buf, []classify.Explanation{
		c.Explain("Genentech, Inc., South San Francisco, CA. lee@gene.com"),
		c.Explain("Harvard Medical School, Boston"),
	})

	out := buf.String()
	assert.Contains(t, out, "verdict:  non-academic")
	assert.Contains(t, out, "company:  Genentech")
	assert.Contains(t, out, "email:    lee@gene.com")
	assert.Contains(t, out, "verdict:  academic")
}
