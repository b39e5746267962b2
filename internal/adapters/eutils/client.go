// Package eutils is the query client for the NCBI Entrez E-utilities. It
// exposes the two operations the resolver needs, search and record fetch,
// with bounded retry and request rate limiting.
package eutils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/genemap/genemap/internal/domain/model"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

// Default client configuration constants.
const (
	// DefaultBaseURL is the live E-utilities endpoint root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	defaultHTTPTimeout = 30 * time.Second
	// NCBI allows 3 requests per second without an API key.
	defaultRatePerSecond = 3
)

// SortOrder selects the candidate ranking returned by Search.
type SortOrder string

// Sort orders accepted by the search endpoint.
const (
	SortRelevance SortOrder = "relevance"
	SortName      SortOrder = "name"
)

// Client performs rate-limited, retried calls against the gene database.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	policy  Policy
	logger  logger.Logger
}

// NewClient creates a query client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpc:   &http.Client{Timeout: defaultHTTPTimeout},
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
		policy:  DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get().Named("eutils")
	}

	return c
}

// Search queries the search endpoint for candidate gene identifiers for one
// human gene symbol, ordered by the requested sort. One outbound request per
// attempt; an empty candidate list is a valid result, never retried.
func (c *Client) Search(ctx context.Context, symbol string, maxResults int, sort SortOrder) ([]string, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("%w: empty gene symbol", ErrInvalidRequest)
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("%w: maxResults must be positive, got %d", ErrInvalidRequest, maxResults)
	}

	q := url.Values{}
	q.Set("db", "gene")
	q.Set("retmode", "json")
	q.Set("retmax", strconv.Itoa(maxResults))
	q.Set("term", fmt.Sprintf("%s[GENE] AND Homo sapiens[ORGN]", symbol))
	q.Set("sort", string(sort))

	body, err := c.get(ctx, "esearch.fcgi", q)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", symbol, err)
	}

	ids, err := parseSearchResult(body)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", symbol, err)
	}

	metrics.RecordSearch()
	c.logger.Debug("search completed",
		logger.String("symbol", symbol),
		logger.Int("candidates", len(ids)),
	)
	return ids, nil
}

// FetchRecord fetches and parses the full record for one candidate id.
func (c *Client) FetchRecord(ctx context.Context, id string) (model.GeneRecord, error) {
	rec, _, err := c.FetchRecordXML(ctx, id)
	return rec, err
}

// FetchRecordXML is FetchRecord plus the raw document, for callers that
// persist snapshots alongside the parsed fields.
func (c *Client) FetchRecordXML(ctx context.Context, id string) (model.GeneRecord, []byte, error) {
	if strings.TrimSpace(id) == "" {
		return model.GeneRecord{}, nil, fmt.Errorf("%w: empty gene id", ErrInvalidRequest)
	}

	q := url.Values{}
	q.Set("db", "gene")
	q.Set("id", id)
	q.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch.fcgi", q)
	if err != nil {
		return model.GeneRecord{}, nil, fmt.Errorf("fetch %s: %w", id, err)
	}

	rec, err := parseGeneRecord(body)
	if err != nil {
		return model.GeneRecord{}, nil, fmt.Errorf("fetch %s: %w", id, err)
	}
	rec.GeneID = id

	metrics.RecordFetch()
	c.logger.Debug("record fetched",
		logger.String("geneID", id),
		logger.String("official", rec.OfficialSymbol),
		logger.Any("discontinued", rec.Discontinued),
	)
	return rec, body, nil
}

// get runs one GET under the retry policy and returns the response body.
// Transport failures and non-2xx statuses are tagged ErrTransient so the
// policy retries them; everything else propagates immediately.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	target := c.baseURL + "/" + endpoint + "?" + q.Encode()

	var body []byte
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("%w: building request: %v", ErrInvalidRequest, err)
		}

		start := time.Now()
		resp, err := c.httpc.Do(req)
		if err != nil {
			metrics.RecordRequestFailure(endpoint, "transport")
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		defer func() { _ = resp.Body.Close() }()
		metrics.RecordRequestLatency(endpoint, time.Since(start).Seconds())

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			metrics.RecordRequestFailure(endpoint, "status")
			return fmt.Errorf("%w: unexpected status %d", ErrTransient, resp.StatusCode)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			metrics.RecordRequestFailure(endpoint, "transport")
			return fmt.Errorf("%w: reading body: %v", ErrTransient, err)
		}
		body = b
		return nil
	})
	return body, err
}
