// Package client provides a thin HTTP client for the cider proxy API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/donaldgifford/cider/internal/catalog"
)

// Client talks to a running cider server. It implements catalog.Catalog so
// commands can use a remote proxy in place of a direct catalog client.
type Client struct {
	baseURL string
	http    *resty.Client
}

var _ catalog.Catalog = (*Client)(nil)

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetBaseURL(c.baseURL)
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient builds the underlying resty client on top of hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// Quota mirrors the proxy's quota endpoint.
type Quota struct {
	Limit     int64     `json:"limit"`
	Used      int64     `json:"used"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Search implements catalog.Catalog.
func (c *Client) Search(ctx context.Context, q catalog.SearchQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("term", q.Term)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		params.Set("types", strings.Join(types, ","))
	}
	return c.get(ctx, "/api/v1/search", params)
}

// Fetch implements catalog.Catalog.
func (c *Client) Fetch(ctx context.Context, q catalog.FetchQuery) (json.RawMessage, error) {
	params := url.Values{}
	if len(q.Include) > 0 {
		include := make([]string, len(q.Include))
		for i, inc := range q.Include {
			include[i] = string(inc)
		}
		params.Set("include", strings.Join(include, ","))
	}
	path := "/api/v1/catalog/" + url.PathEscape(string(q.Type)) + "/" + url.PathEscape(q.ID)
	return c.get(ctx, path, params)
}

// Quota returns the proxy's current rate limit window usage.
func (c *Client) Quota(ctx context.Context) (*Quota, error) {
	body, err := c.get(ctx, "/api/v1/quota", nil)
	if err != nil {
		return nil, err
	}
	var q Quota
	if err := json.Unmarshal(body, &q); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &q, nil
}

// get returns the raw body of a successful response. Error statuses come
// back as *catalog.APIError so callers handle proxy and direct failures
// alike.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetHeader("Accept", "application/json").
		Get(path)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("cider server not running at %s", c.baseURL)
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &catalog.APIError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}
	return json.RawMessage(resp.Body()), nil
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
