package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response body is carried in errors.
const maxErrorBody = 500

// activeFilter and stableOrder define the remote query window. The secondary
// ListingKey ordering makes pagination deterministic under concurrent
// upstream writes.
const (
	activeFilter = "MlsStatus eq 'Active'"
	stableOrder  = "ListingContractDate desc,ListingKey desc"
	mediaExpand  = "Media($orderby=Order)"
)

// TokenSource supplies a valid bearer token for feed requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("feed returned HTTP %d: %s", e.StatusCode, e.Body)
}

// DecodeError is returned when a 2xx response carries a malformed payload.
type DecodeError struct {
	Cause error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("feed returned malformed payload: %v", e.Cause)
}

// Unwrap returns the underlying cause
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Client queries the upstream OData listing endpoint.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	limiter      *rate.Limiter
	countTimeout time.Duration
	pageTimeout  time.Duration
}

// ClientConfig holds configuration for a feed client
type ClientConfig struct {
	BaseURL           string
	Tokens            TokenSource
	HTTPClient        *http.Client
	CountTimeout      time.Duration
	PageTimeout       time.Duration
	RequestsPerSecond float64
}

// NewClient creates a new feed client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	countTimeout := cfg.CountTimeout
	if countTimeout == 0 {
		countTimeout = 25 * time.Second
	}
	pageTimeout := cfg.PageTimeout
	if pageTimeout == 0 {
		pageTimeout = 45 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		httpClient:   httpClient,
		tokens:       cfg.Tokens,
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		countTimeout: countTimeout,
		pageTimeout:  pageTimeout,
	}, nil
}

// FetchCount returns the total number of active listings in the feed. A
// missing count in an otherwise valid payload is reported as zero, matching
// the feed's behavior for an empty result set.
func (c *Client) FetchCount(ctx context.Context) (int, error) {
	params := url.Values{}
	params.Set("$filter", activeFilter)
	params.Set("$orderby", stableOrder)
	params.Set("$top", "1")
	params.Set("$count", "true")

	var resp countResponse
	if err := c.getJSON(ctx, params, c.countTimeout, &resp); err != nil {
		return 0, err
	}

	if resp.Count == nil || *resp.Count < 0 {
		return 0, nil
	}
	return *resp.Count, nil
}

// FetchPage returns one window of active listings starting at offset, with
// the media sub-collection expanded in upstream order.
func (c *Client) FetchPage(ctx context.Context, offset, top int) ([]Property, error) {
	params := url.Values{}
	params.Set("$filter", activeFilter)
	params.Set("$orderby", stableOrder)
	params.Set("$skip", strconv.Itoa(offset))
	params.Set("$top", strconv.Itoa(top))
	params.Set("$count", "true")
	params.Set("$expand", mediaExpand)

	var resp pageResponse
	if err := c.getJSON(ctx, params, c.pageTimeout, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// getJSON performs one authenticated GET against the feed and decodes the
// JSON response into out.
func (c *Client) getJSON(ctx context.Context, params url.Values, timeout time.Duration, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("acquire feed token: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) // nolint:errcheck // drain for connection reuse
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read feed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Cause: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
