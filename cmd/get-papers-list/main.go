// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI. It searches
// PubMed and reports papers with at least one author affiliated with a
// pharmaceutical or biotech company.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/get-papers-list/internal/logger"
	"github.com/pdiddy/get-papers-list/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	appName   = "get-papers-list"
	envPrefix = "GET_PAPERS_LIST"

	secretsDir = ".secrets/"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd runs a query when given one and hosts the helper subcommands.
var rootCmd = &cobra.Command{
	Use:   appName + " <query>",
	Short: "List PubMed papers with pharmaceutical or biotech company authors",
	Long: `get-papers-list searches PubMed with the full query syntax, fetches the
matching records, and keeps the papers where at least one author is affiliated
with a company. Results are written as CSV to stdout, or to --file.

Set an NCBI API key with --api-key, NCBI_API_KEY, or .secrets/ncbi-api-key to
raise the request rate from 3 to 10 per second.`,
	Example: `  get-papers-list "cancer immunotherapy" -f results.csv
  get-papers-list "crispr[Title] AND 2023[dp]" --format table -m 50`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l := logger.Setup(viper.GetBool("debug"))
		ctx := logger.WithLogger(cmd.Context(), l)
		cmd.SetContext(ctx)

		s, err := secrets.Load(ctx, secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug(ctx, "loaded secrets", zap.Strings("keys", keys))
		}
		if path := viper.ConfigFileUsed(); path != "" {
			logger.Debug(ctx, "using config file", zap.String("path", path))
		}
		return nil
	},
	RunE: runQuery,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/config.yaml)")
	pf.BoolP("debug", "d", false, "print debug information during execution")
	pf.String("registry", "", "indicator registry YAML (default: built-in)")

	f := rootCmd.Flags()
	f.StringP("file", "f", "", "write results to this file instead of stdout")
	f.IntP("max-results", "m", 100, "maximum number of PubMed results to process")
	f.StringP("api-key", "k", "", "NCBI API key")
	f.String("email", "", "contact email sent to NCBI with each request")
	f.String("format", "csv", "output format: csv, table, or json")
	f.Int("batch-size", 0, "PMIDs per efetch request (default 100)")
	f.Int("concurrency", 0, "efetch requests in flight (default 2)")
	f.Duration("timeout", 0, "HTTP request timeout (default 30s)")

	bindFlags(viper.GetViper(), rootCmd)
}

// bindFlags maps CLI flags onto configuration keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bindings := map[string]string{
		"debug":             "debug",
		"registry":          "registry",
		"report.file":       "file",
		"report.format":     "format",
		"fetch.max_results": "max-results",
		"fetch.api_key":     "api-key",
		"fetch.email":       "email",
		"fetch.batch_size":  "batch-size",
		"fetch.concurrency": "concurrency",
		"fetch.timeout":     "timeout",
	}
	for key, name := range bindings {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		_ = v.BindPFlag(key, flag)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	setupEnv(viper.GetViper())

	// A missing config file is fine; flags, env and defaults still apply.
	_ = viper.ReadInConfig()
}

// setupEnv makes every key readable from GET_PAPERS_LIST_<SECTION>_<KEY>.
// The API key additionally honours NCBI_API_KEY.
func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("fetch.api_key", envPrefix+"_FETCH_API_KEY", "NCBI_API_KEY")
	_ = v.BindEnv("fetch.email", envPrefix+"_FETCH_EMAIL", "NCBI_EMAIL")
	setDefaults(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Setup(false).Error(err.Error())
		os.Exit(1)
	}
}
