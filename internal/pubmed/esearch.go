// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/pdiddy/get-papers-list/internal/logger"
)

// searchWindow is the deepest retstart esearch serves for PubMed.
const searchWindow = 10000

// searchPage is the part of an esearch JSON response the client reads.
type searchPage struct {
	Count int
	IDs   []string
}

// Search returns up to max PMIDs matching query, in the order PubMed ranks
// them. max <= 0 selects the configured maximum. Results are paged with
// retstart/retmax.
func (c *Client) Search(ctx context.Context, query string, max int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if max <= 0 {
		max = c.maxResults
	}

	var ids []string
	for start := 0; len(ids) < max; {
		if start >= searchWindow {
			logger.Warn(ctx, "esearch window exhausted", zap.Int("retrieved", len(ids)))
			break
		}

		retmax := c.pageSize
		if remaining := max - len(ids); remaining < retmax {
			retmax = remaining
		}

		page, err := c.searchPage(ctx, query, start, retmax)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page.IDs...)

		logger.Debug(ctx, "esearch page",
			zap.Int("start", start),
			zap.Int("returned", len(page.IDs)),
			zap.Int("count", page.Count),
		)

		start += len(page.IDs)
		if len(page.IDs) == 0 || start >= page.Count {
			break
		}
	}

	if len(ids) > max {
		ids = ids[:max]
	}
	return ids, nil
}

func (c *Client) searchPage(ctx context.Context, query string, start, retmax int) (searchPage, error) {
	params := c.params()
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retstart", strconv.Itoa(start))
	params.Set("retmax", strconv.Itoa(retmax))

	resp, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return searchPage{}, err
	}
	defer resp.Body.Close()

	page, err := decodeSearch(resp.Body)
	if err != nil {
		return searchPage{}, errors.Wrap(err, "parsing esearch response")
	}
	return page, nil
}

// decodeSearch streams an esearch JSON document, keeping only
// esearchresult.count, esearchresult.idlist and any ERROR message.
func decodeSearch(r io.Reader) (searchPage, error) {
	var page searchPage
	var apiErr string

	d := jx.Decode(r, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "esearchresult" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "count":
				n, err := decodeCount(d)
				if err != nil {
					return errors.Wrap(err, "count")
				}
				page.Count = n
				return nil
			case "idlist":
				return d.Arr(func(d *jx.Decoder) error {
					id, err := d.Str()
					if err != nil {
						return errors.Wrap(err, "idlist")
					}
					if id = strings.TrimSpace(id); id != "" {
						page.IDs = append(page.IDs, id)
					}
					return nil
				})
			case "ERROR":
				s, err := d.Str()
				if err != nil {
					return err
				}
				apiErr = s
				return nil
			default:
				return d.Skip()
			}
		})
	})
	if err != nil {
		return searchPage{}, err
	}
	if apiErr != "" {
		return searchPage{}, errors.Errorf("esearch error: %s", apiErr)
	}
	return page, nil
}

// decodeCount accepts the count as a JSON string (what NCBI sends) or number.
func decodeCount(d *jx.Decoder) (int, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return d.Int()
}
