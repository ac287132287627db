// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed searches PubMed and fetches article records through the NCBI
// E-utilities API. Requests are rate limited per NCBI policy (3 requests per
// second, 10 with an API key) and retried when throttled.
package pubmed

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/internal/logger"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Defaults applied by NewClient when the config leaves a field empty.
const (
	DefaultBaseURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultTool       = "get-papers-list"
	DefaultMaxResults = 100
	DefaultPageSize   = 500
	DefaultTimeout    = 30 * time.Second

	// maxPageSize is the largest retmax esearch accepts.
	maxPageSize = 10000

	anonymousRate = 3
	keyedRate     = 10
)

var (
	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrHTTPStatus marks a non-200 response that survived retries.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Client talks to the E-utilities endpoints. It is safe for concurrent use;
// all requests share one rate limiter.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	email      string
	tool       string
	userAgent  string
	maxResults int
	pageSize   int
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient builds a Client from cfg. A nil httpClient gets one with
// cfg.Timeout (default 30s).
func NewClient(cfg types.FetchConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		email:      cfg.Email,
		tool:       cfg.Tool,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.tool == "" {
		c.tool = DefaultTool
	}
	if c.maxResults <= 0 {
		c.maxResults = DefaultMaxResults
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}

	perSecond := anonymousRate
	if c.apiKey != "" {
		perSecond = keyedRate
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	return c
}

// SetRateLimit overrides the request rate. Tests use rate.Inf.
func (c *Client) SetRateLimit(limit rate.Limit) {
	c.limiter.SetLimit(limit)
}

// params returns the identification parameters NCBI asks every caller to send.
func (c *Client) params() url.Values {
	v := url.Values{}
	v.Set("db", "pubmed")
	v.Set("tool", c.tool)
	if c.apiKey != "" {
		v.Set("api_key", c.apiKey)
	}
	if c.email != "" {
		v.Set("email", c.email)
	}
	return v
}

// get issues a GET to endpoint with params in the query string.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	return c.do(ctx, endpoint, req)
}

// post issues a form POST, used for long id lists that do not fit a URL.
func (c *Client) post(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, endpoint, req)
}

func (c *Client) do(ctx context.Context, endpoint string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for rate limiter")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger.Debug(ctx, "e-utilities request", zap.String("endpoint", endpoint), zap.String("method", req.Method))

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request", endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, errors.Wrapf(ErrHTTPStatus, "%s returned HTTP %d", endpoint, resp.StatusCode)
	}
	return resp, nil
}
