// Package catalog builds authenticated requests for the Apple Music catalog
// API and executes them through a pluggable Doer.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.music.apple.com"
	defaultTimeout = 5 * time.Second

	searchPath = "v1/catalog/{storefront}/search"

	storefrontPlaceholder = "{storefront}"
	idPlaceholder         = "{id}"

	// HeaderAuthorization carries the developer token.
	HeaderAuthorization = "Authorization"
	// HeaderUserToken carries the end-user token on personalized requests.
	HeaderUserToken = "Music-User-Token"
)

var (
	// ErrMissingUserToken is returned when a user token is attached but the
	// builder was never given one.
	ErrMissingUserToken = errors.New("no user token configured")

	// ErrUnknownMediaType is returned for media types outside the catalog set.
	ErrUnknownMediaType = errors.New("unknown media type")
)

// Storefront is a regional Apple Music storefront code.
type Storefront string

// Known storefronts.
const (
	StorefrontUS Storefront = "us"
	StorefrontGB Storefront = "gb"
	StorefrontCA Storefront = "ca"
	StorefrontAU Storefront = "au"
	StorefrontDE Storefront = "de"
	StorefrontFR Storefront = "fr"
	StorefrontJP Storefront = "jp"
)

// ParseStorefront validates a storefront code. Any two-letter ISO 3166-1
// alpha-2 code is accepted; input is lowercased.
func ParseStorefront(s string) (Storefront, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'z' || s[1] < 'a' || s[1] > 'z' {
		return "", fmt.Errorf("invalid storefront %q: want a two-letter country code", s)
	}
	return Storefront(s), nil
}

// MediaType is a catalog resource type.
type MediaType string

// Catalog media types.
const (
	Artists     MediaType = "artists"
	Albums      MediaType = "albums"
	Songs       MediaType = "songs"
	Playlists   MediaType = "playlists"
	MusicVideos MediaType = "music-videos"
)

var fetchPaths = map[MediaType]string{
	Artists:     "v1/catalog/{storefront}/artists/{id}",
	Albums:      "v1/catalog/{storefront}/albums/{id}",
	Songs:       "v1/catalog/{storefront}/songs/{id}",
	Playlists:   "v1/catalog/{storefront}/playlists/{id}",
	MusicVideos: "v1/catalog/{storefront}/music-videos/{id}",
}

// MediaTypes returns every catalog media type in a stable order.
func MediaTypes() []MediaType {
	return []MediaType{Artists, Albums, Songs, Playlists, MusicVideos}
}

// ParseMediaType maps a raw resource type name to a MediaType.
func ParseMediaType(s string) (MediaType, error) {
	mt := MediaType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fetchPaths[mt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
	return mt, nil
}

// Include is a relationship-expansion directive understood by the API.
type Include string

// CachePolicy tells the transport how to treat locally cached responses.
type CachePolicy int

// Cache policies.
const (
	UseProtocolCachePolicy CachePolicy = iota
	ReloadIgnoringCacheData
	ReturnCacheDataElseLoad
	ReturnCacheDataDontLoad
)

var cachePolicyNames = map[CachePolicy]string{
	UseProtocolCachePolicy:  "use_protocol_cache_policy",
	ReloadIgnoringCacheData: "reload_ignoring_cache_data",
	ReturnCacheDataElseLoad: "return_cache_data_else_load",
	ReturnCacheDataDontLoad: "return_cache_data_dont_load",
}

func (p CachePolicy) String() string {
	if name, ok := cachePolicyNames[p]; ok {
		return name
	}
	return "CachePolicy(" + strconv.Itoa(int(p)) + ")"
}

// ParseCachePolicy converts a snake_case policy name to a CachePolicy.
func ParseCachePolicy(s string) (CachePolicy, error) {
	for p, name := range cachePolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown cache policy %q", s)
}

// Request is a fully built catalog request. It is never modified after a
// builder returns it; use Clone to derive a copy.
type Request struct {
	Method      string
	URL         *url.URL
	Header      http.Header
	CachePolicy CachePolicy
	Timeout     time.Duration
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	u := *r.URL
	return &Request{
		Method:      r.Method,
		URL:         &u,
		Header:      r.Header.Clone(),
		CachePolicy: r.CachePolicy,
		Timeout:     r.Timeout,
	}
}

// HTTPRequest converts r into an *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header = r.Header.Clone()
	return req, nil
}

// RequestBuilder constructs catalog requests. It is a value type: every
// configuration change returns a new builder, so a builder can be shared by
// concurrent callers without synchronization.
type RequestBuilder struct {
	storefront     Storefront
	developerToken string
	userToken      string
	cachePolicy    CachePolicy
	timeout        time.Duration
	base           url.URL
}

// Option configures a RequestBuilder.
type Option func(*RequestBuilder)

// WithCachePolicy overrides the default ReturnCacheDataElseLoad policy.
func WithCachePolicy(p CachePolicy) Option {
	return func(b *RequestBuilder) {
		b.cachePolicy = p
	}
}

// WithTimeout overrides the default 5s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *RequestBuilder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithBaseURL points the builder at a different scheme and host, such as a
// mock server. Any path on u is ignored.
func WithBaseURL(u *url.URL) Option {
	return func(b *RequestBuilder) {
		b.base = url.URL{Scheme: u.Scheme, Host: u.Host}
	}
}

// WithInitialUserToken sets the user token at construction time.
func WithInitialUserToken(token string) Option {
	return func(b *RequestBuilder) {
		b.userToken = token
	}
}

// NewRequestBuilder creates a builder for the given storefront and developer
// token.
func NewRequestBuilder(
	storefront Storefront,
	developerToken string,
	opts ...Option,
) RequestBuilder {
	base, _ := url.Parse(defaultBaseURL) //nolint:errcheck // constant URL
	b := RequestBuilder{
		storefront:     storefront,
		developerToken: developerToken,
		cachePolicy:    ReturnCacheDataElseLoad,
		timeout:        defaultTimeout,
		base:           *base,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Storefront returns the configured storefront.
func (b RequestBuilder) Storefront() Storefront { return b.storefront }

// HasUserToken reports whether a user token is configured.
func (b RequestBuilder) HasUserToken() bool { return b.userToken != "" }

// WithUserToken returns a copy of b that carries token. An empty token
// clears it.
func (b RequestBuilder) WithUserToken(token string) RequestBuilder {
	b.userToken = token
	return b
}

// SearchOption configures a search request.
type SearchOption func(*searchParams)

type searchParams struct {
	limit int
	types []MediaType
}

// WithLimit caps the number of results. Values <= 0 omit the parameter.
func WithLimit(n int) SearchOption {
	return func(p *searchParams) {
		p.limit = n
	}
}

// WithTypes restricts results to the given media types.
func WithTypes(types ...MediaType) SearchOption {
	return func(p *searchParams) {
		p.types = append(p.types, types...)
	}
}

// BuildSearchRequest builds a catalog search for term.
func (b RequestBuilder) BuildSearchRequest(term string, opts ...SearchOption) *Request {
	var p searchParams
	for _, opt := range opts {
		opt(&p)
	}

	params := url.Values{}
	params.Set("term", term)

	if p.limit > 0 {
		params.Set("limit", strconv.Itoa(p.limit))
	}

	if len(p.types) > 0 {
		names := make([]string, len(p.types))
		for i, t := range p.types {
			names[i] = string(t)
		}
		params.Set("types", strings.Join(names, ","))
	}

	return b.newRequest(b.addStorefront(searchPath), params)
}

// BuildFetchRequest builds a request for a single catalog resource.
func (b RequestBuilder) BuildFetchRequest(
	mediaType MediaType,
	id string,
	include ...Include,
) (*Request, error) {
	tmpl, ok := fetchPaths[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMediaType, string(mediaType))
	}

	params := url.Values{}
	if len(include) > 0 {
		tags := make([]string, len(include))
		for i, inc := range include {
			tags[i] = string(inc)
		}
		params.Set("include", strings.Join(tags, ","))
	}

	path := strings.ReplaceAll(b.addStorefront(tmpl), idPlaceholder, id)
	return b.newRequest(path, params), nil
}

// AttachUserToken returns a copy of req carrying the Music-User-Token header.
// req itself is left untouched.
func (b RequestBuilder) AttachUserToken(req *Request) (*Request, error) {
	if b.userToken == "" {
		return nil, ErrMissingUserToken
	}

	out := req.Clone()
	out.Header.Set(HeaderUserToken, b.userToken)
	return out, nil
}

func (b RequestBuilder) addStorefront(tmpl string) string {
	return strings.ReplaceAll(tmpl, storefrontPlaceholder, string(b.storefront))
}

func (b RequestBuilder) newRequest(path string, params url.Values) *Request {
	u := b.base
	// Path holds the literal id; URL.String escapes it on the wire.
	u.Path = "/" + path
	u.RawQuery = params.Encode()

	header := http.Header{}
	header.Set(HeaderAuthorization, "Bearer "+b.developerToken)

	return &Request{
		Method:      http.MethodGet,
		URL:         &u,
		Header:      header,
		CachePolicy: b.cachePolicy,
		Timeout:     b.timeout,
	}
}
