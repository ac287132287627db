// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/logger"
	"github.com/pdiddy/get-papers-list/internal/pipeline"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/registry"
	"github.com/pdiddy/get-papers-list/internal/report"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

func runQuery(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return cmd.Help()
	}

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(string(cfg.Report.Format))
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cmd.Context(), cfg.RegistryFile)
	if err != nil {
		return err
	}

	client := pubmed.NewClient(cfg.Fetch, nil)
	res, err := pipeline.Run(cmd.Context(), client, classifier, query, cfg.Fetch)
	if err != nil {
		return err
	}
	if len(res.Rows) == 0 {
		logger.Warn(cmd.Context(), "no papers with non-academic authors found",
			zap.String("query", query), zap.Int("fetched", res.Fetched))
	}

	return writeReport(cmd.Context(), cmd.OutOrStdout(), cfg.Report.OutputFile, format, res.Rows)
}

// newClassifier loads the registry at path, or the built-in one when path is empty.
func newClassifier(ctx context.Context, path string) (*classify.Classifier, error) {
	reg := registry.Default()
	if path != "" {
		var err error
		if reg, err = registry.Load(path); err != nil {
			return nil, err
		}
	}
	logger.Debug(ctx, "registry loaded",
		zap.String("version", reg.Version()),
		zap.Int("academic_terms", reg.Academic().Len()),
		zap.Int("company_terms", reg.Company().Len()),
	)
	return classify.New(reg), nil
}

// writeReport renders rows to path, or to stdout when path is empty.
func writeReport(ctx context.Context, stdout io.Writer, path string, format types.OutputFormat, rows []types.ReportRow) error {
	if path == "" {
		return report.Write(stdout, format, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := report.Write(f, format, rows); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", path)
	}
	logger.Info(ctx, "results saved", zap.String("file", path), zap.Int("papers", len(rows)))
	return nil
}
