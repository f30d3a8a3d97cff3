package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the raw result of executing a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FromCache  bool
}

// Doer executes built requests. The transport package provides the
// production implementation.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// SearchQuery defines the parameters for a catalog search.
type SearchQuery struct {
	Term  string
	Limit int
	Types []MediaType
}

// FetchQuery identifies a single catalog resource.
type FetchQuery struct {
	Type    MediaType
	ID      string
	Include []Include
}

// Catalog is the read surface of the catalog API.
type Catalog interface {
	Search(ctx context.Context, q SearchQuery) (json.RawMessage, error)
	Fetch(ctx context.Context, q FetchQuery) (json.RawMessage, error)
}

// APIError is returned when the catalog API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, string(e.Body))
}

// Client builds requests with a RequestBuilder and executes them with a Doer.
type Client struct {
	builder      RequestBuilder
	doer         Doer
	personalized bool
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithPersonalization attaches the builder's user token to every request.
// Calls fail with ErrMissingUserToken when the builder has none.
func WithPersonalization() ClientOption {
	return func(c *Client) {
		c.personalized = true
	}
}

// NewClient creates a catalog client.
func NewClient(builder RequestBuilder, doer Doer, opts ...ClientOption) *Client {
	c := &Client{
		builder: builder,
		doer:    doer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Builder returns the client's request builder.
func (c *Client) Builder() RequestBuilder {
	return c.builder
}

// Search implements Catalog.Search.
func (c *Client) Search(ctx context.Context, q SearchQuery) (json.RawMessage, error) {
	return c.Do(ctx, c.builder.BuildSearchRequest(q.Term, WithLimit(q.Limit), WithTypes(q.Types...)))
}

// Fetch implements Catalog.Fetch.
func (c *Client) Fetch(ctx context.Context, q FetchQuery) (json.RawMessage, error) {
	req, err := c.builder.BuildFetchRequest(q.Type, q.ID, q.Include...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do executes req and returns the response body. Non-2xx responses are
// returned as *APIError.
func (c *Client) Do(ctx context.Context, req *Request) (json.RawMessage, error) {
	if c.personalized {
		var err error
		if req, err = c.builder.AttachUserToken(req); err != nil {
			return nil, err
		}
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("executing catalog request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("parsing catalog response: invalid JSON")
	}

	return json.RawMessage(resp.Body), nil
}
