// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one query end to end: search PubMed, fetch the
// matching records in batches, and keep the papers with at least one
// company-affiliated author.
package pipeline

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/logger"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	DefaultBatchSize   = 100
	DefaultConcurrency = 2
)

// Source finds and retrieves papers. *pubmed.Client satisfies it.
type Source interface {
	Search(ctx context.Context, query string, max int) ([]string, error)
	Fetch(ctx context.Context, ids []string) ([]types.Paper, error)
}

// Result summarizes a run.
type Result struct {
	RunID string

	// Rows holds one entry per qualifying paper, in search order.
	Rows []types.ReportRow

	Searched   int
	Fetched    int
	Qualifying int
}

// Run searches src for query and classifies every fetched paper. Batches are
// fetched concurrently but rows come back in the order the search ranked
// them. Any batch failure cancels the run.
func Run(ctx context.Context, src Source, c *classify.Classifier, query string, cfg types.FetchConfig) (Result, error) {
	res := Result{RunID: uuid.NewString(), Rows: []types.ReportRow{}}
	ctx = logger.WithFields(ctx, zap.String("run_id", res.RunID))

	ids, err := src.Search(ctx, query, cfg.MaxResults)
	if err != nil {
		return res, errors.Wrap(err, "searching")
	}
	res.Searched = len(ids)
	logger.Info(ctx, "search complete", zap.String("query", query), zap.Int("ids", len(ids)))
	if len(ids) == 0 {
		return res, nil
	}

	batches := split(ids, cfg.BatchSize)
	papers := make([][]types.Paper, len(batches))
	rows := make([][]types.ReportRow, len(batches))

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			fetched, err := src.Fetch(gctx, batch)
			if err != nil {
				return errors.Wrapf(err, "fetching batch %d of %d", i+1, len(batches))
			}
			papers[i] = fetched
			rows[i] = c.EvaluateAll(fetched)
			logger.Debug(gctx, "batch classified",
				zap.Int("batch", i+1),
				zap.Int("requested", len(batch)),
				zap.Int("fetched", len(fetched)),
				zap.Int("qualifying", len(rows[i])),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for i := range batches {
		res.Fetched += len(papers[i])
		res.Rows = append(res.Rows, rows[i]...)
	}
	res.Qualifying = len(res.Rows)

	logger.Info(ctx, "classification complete",
		zap.Int("fetched", res.Fetched),
		zap.Int("qualifying", res.Qualifying),
	)
	return res, nil
}

// split cuts ids into consecutive batches of at most size elements.
func split(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
