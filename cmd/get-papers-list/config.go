package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/pipeline"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const defaultUserAgent = "get-papers-list/0.1"

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("registry", "")
	v.SetDefault("report.format", string(types.FormatCSV))
	v.SetDefault("report.file", "")
	v.SetDefault("fetch.base_url", pubmed.DefaultBaseURL)
	v.SetDefault("fetch.tool", pubmed.DefaultTool)
	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.timeout", pubmed.DefaultTimeout)
	v.SetDefault("fetch.max_results", pubmed.DefaultMaxResults)
	v.SetDefault("fetch.page_size", pubmed.DefaultPageSize)
	v.SetDefault("fetch.batch_size", pipeline.DefaultBatchSize)
	v.SetDefault("fetch.concurrency", pipeline.DefaultConcurrency)
	v.SetDefault("fetch.max_retries", 5)
	v.SetDefault("fetch.api_key", "")
	v.SetDefault("fetch.email", "")
}

// loadConfig resolves the run configuration from v. Credentials missing from
// flags, env and config file fall back to the .secrets/ directory.
func loadConfig(v *viper.Viper, secretValues map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding configuration")
	}

	cfg.Fetch.APIKey = secretDefault(secretValues, secrets.NCBIAPIKey, cfg.Fetch.APIKey)
	cfg.Fetch.Email = secretDefault(secretValues, secrets.NCBIEmail, cfg.Fetch.Email)

	if cfg.Fetch.MaxResults <= 0 {
		return cfg, errors.Errorf("max-results must be positive, got %d", cfg.Fetch.MaxResults)
	}
	if cfg.Fetch.BatchSize <= 0 {
		cfg.Fetch.BatchSize = pipeline.DefaultBatchSize
	}
	if cfg.Fetch.Concurrency <= 0 {
		cfg.Fetch.Concurrency = pipeline.DefaultConcurrency
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = pubmed.DefaultTimeout
	}
	return cfg, nil
}

// secretDefault returns value if set, else the secret stored under key.
func secretDefault(secretValues map[string]string, key, value string) string {
	if value != "" {
		return value
	}
	return secretValues[key]
}
