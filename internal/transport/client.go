// Package transport executes catalog requests over HTTP, honoring each
// request's cache policy and timeout.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/donaldgifford/cider/internal/cache"
	"github.com/donaldgifford/cider/internal/catalog"
	"github.com/donaldgifford/cider/internal/metrics"
	"github.com/donaldgifford/cider/pkg/logger"
)

// ErrNotCached is returned for ReturnCacheDataDontLoad requests that have no
// cached response.
var ErrNotCached = errors.New("response not cached")

// Client implements catalog.Doer with resty.
type Client struct {
	http        *resty.Client
	cache       cache.Store
	rateLimiter *RateLimiter
	log         *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient builds the underlying resty client on top of hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// WithCache stores and serves responses according to each request's cache
// policy. Without a cache every request goes to the network.
func WithCache(s cache.Store) Option {
	return func(c *Client) {
		c.cache = s
	}
}

// WithRateLimiter routes every network call through r.Wait first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithLogger sets the logger. Calls are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: resty.New(),
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do implements catalog.Doer.
func (c *Client) Do(ctx context.Context, req *catalog.Request) (*catalog.Response, error) {
	reqID := uuid.NewString()
	kind := requestKind(req)
	key := req.Method + " " + req.URL.String()
	log := c.log.With("request_id", reqID, "kind", kind, "policy", req.CachePolicy.String())

	// Personalized responses are never shared through the cache.
	cacheable := c.cache != nil && req.Header.Get(catalog.HeaderUserToken) == ""

	if cacheable && readsCache(req.CachePolicy) {
		body, ok, err := c.cache.Get(key)
		switch {
		case err != nil:
			log.Warn("cache read failed", "error", err)
		case ok:
			metrics.CacheHitsTotal.Inc()
			log.Debug("cache hit", "url", req.URL.Path)
			return &catalog.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				Body:       body,
				FromCache:  true,
			}, nil
		default:
			metrics.CacheMissesTotal.Inc()
		}
	}

	if req.CachePolicy == catalog.ReturnCacheDataDontLoad {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotCached)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrQuotaExhausted) {
				metrics.QuotaLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.QuotaUsage.Set(float64(c.rateLimiter.Used()))
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header).
		Execute(req.Method, req.URL.String())
	metrics.CatalogRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogErrorsTotal.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("executing %s request: %w", kind, err)
	}

	status := resp.StatusCode()
	metrics.CatalogRequestsTotal.WithLabelValues(kind, strconv.Itoa(status)).Inc()
	log.Debug("catalog request",
		"url", req.URL.Path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := &catalog.Response{
		StatusCode: status,
		Header:     resp.Header(),
		Body:       resp.Body(),
	}

	if cacheable && status >= 200 && status < 300 && writesCache(req.CachePolicy, out.Header) {
		if err := c.cache.Put(key, out.Body); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}

	return out, nil
}

func readsCache(p catalog.CachePolicy) bool {
	return p == catalog.ReturnCacheDataElseLoad || p == catalog.ReturnCacheDataDontLoad
}

func writesCache(p catalog.CachePolicy, h http.Header) bool {
	if p == catalog.UseProtocolCachePolicy {
		return !strings.Contains(strings.ToLower(h.Get("Cache-Control")), "no-store")
	}
	return true
}

func requestKind(req *catalog.Request) string {
	if strings.HasSuffix(req.URL.Path, "/search") {
		return "search"
	}
	return "fetch"
}
