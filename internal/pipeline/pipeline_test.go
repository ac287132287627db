// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/registry"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// fakeSource serves ids "1".."n". Odd ids carry a Pfizer author.
type fakeSource struct {
	n        int
	fetchErr error
	delay    func(batch []string) time.Duration

	mu       sync.Mutex
	batches  [][]string
	inFlight int32
	peak     int32
}

func (f *fakeSource) Search(_ context.Context, query string, max int) ([]string, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	var ids []string
	for i := 1; i <= f.n && len(ids) < max; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids, nil
}

func (f *fakeSource) Fetch(ctx context.Context, ids []string) ([]types.Paper, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if cur <= p || atomic.CompareAndSwapInt32(&f.peak, p, cur) {
			break
		}
	}

	f.mu.Lock()
	f.batches = append(f.batches, ids)
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(ids)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	papers := make([]types.Paper, 0, len(ids))
	for _, id := range ids {
		n, _ := strconv.Atoi(id)
		aff := "Department of Biology, University of Oxford, UK"
		if n%2 == 1 {
			aff = "Pfizer Inc., New York, NY, USA"
		}
		papers = append(papers, types.Paper{
			ID:              id,
			Title:           "Paper " + id,
			PublicationDate: "2024",
			Authors:         []types.Author{{Name: "Author " + id, Affiliations: []string{aff}}},
		})
	}
	return papers, nil
}

func newClassifier() *classify.Classifier {
	return classify.New(registry.Default())
}

func TestRunKeepsQualifyingInSearchOrder(t *testing.T) {
	src := &fakeSource{
		n: 10,
		// Earlier batches finish last.
		delay: func(batch []string) time.Duration {
			n, _ := strconv.Atoi(batch[0])
			return time.Duration(20-n) * time.Millisecond
		},
	}
	cfg := types.FetchConfig{MaxResults: 10, BatchSize: 3, Concurrency: 4}

	res, err := Run(context.Background(), src, newClassifier(), "oncology", cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 10, res.Searched)
	assert.Equal(t, 10, res.Fetched)
	assert.Equal(t, 5, res.Qualifying)
	require.Len(t, res.Rows, 5)

	var got []string
	for _, r := range res.Rows {
		got = append(got, r.PubmedID)
	}
	assert.Equal(t, []string{"1", "3", "5", "7", "9"}, got)
	assert.Equal(t, []string{"Pfizer Inc."}, res.Rows[0].CompanyAffiliations)
	assert.Equal(t, []string{"Author 1"}, res.Rows[0].NonAcademicAuthors)
	assert.Len(t, src.batches, 4)
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	src := &fakeSource{
		n:     12,
		delay: func([]string) time.Duration { return 5 * time.Millisecond },
	}
	cfg := types.FetchConfig{MaxResults: 12, BatchSize: 2, Concurrency: 2}

	_, err := Run(context.Background(), src, newClassifier(), "q", cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&src.peak), int32(2))
	assert.Len(t, src.batches, 6)
}

func TestRunNoResults(t *testing.T) {
	src := &fakeSource{n: 0}
	res, err := Run(context.Background(), src, newClassifier(), "nothing", types.FetchConfig{MaxResults: 5})
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.Zero(t, res.Searched)
	assert.Empty(t, src.batches)
}

func TestRunSearchError(t *testing.T) {
	_, err := Run(context.Background(), &fakeSource{n: 3}, newClassifier(), "", types.FetchConfig{MaxResults: 5})
	assert.ErrorContains(t, err, "searching")
}

func TestRunFetchError(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{n: 4, fetchErr: boom}
	_, err := Run(context.Background(), src, newClassifier(), "q", types.FetchConfig{MaxResults: 4, BatchSize: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "fetching batch")
}

func TestSplit(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, split(ids, 2))
	assert.Equal(t, [][]string{ids}, split(ids, 0))
	assert.Equal(t, [][]string{ids}, split(ids, 10))
	assert.Empty(t, split(nil, 3))
}
