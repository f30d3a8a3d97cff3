package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cider/internal/cache"
	"github.com/donaldgifford/cider/internal/catalog"
	"github.com/donaldgifford/cider/internal/transport"
)

type countingServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newCountingServer(t *testing.T, handler http.HandlerFunc) *countingServer {
	t.Helper()

	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func builderFor(t *testing.T, srv *httptest.Server, opts ...catalog.Option) catalog.RequestBuilder {
	t.Helper()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	opts = append([]catalog.Option{catalog.WithBaseURL(u)}, opts...)
	return catalog.NewRequestBuilder(catalog.StorefrontUS, "dev-token", opts...)
}

func newBoltCache(t *testing.T) cache.Store {
	t.Helper()

	s, err := cache.NewStore("bbolt", filepath.Join(t.TempDir(), "cache.db"), cache.Options{TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestClient_Do_SendsHeaders(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer dev-token", r.Header.Get("Authorization"))
		assert.Equal(t, "user-token", r.Header.Get("Music-User-Token"))
		assert.Equal(t, "/v1/catalog/us/search", r.URL.Path)
		assert.Equal(t, "hello world", r.URL.Query().Get("term"))
		okHandler(`{"results":{}}`)(w, r)
	})

	b := builderFor(t, srv.Server).WithUserToken("user-token")
	req, err := b.AttachUserToken(b.BuildSearchRequest("hello world"))
	require.NoError(t, err)

	resp, err := transport.New().Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"results":{}}`, string(resp.Body))
	assert.False(t, resp.FromCache)
}

func TestClient_Do_NonOKIsReturned(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"status":"404"}]}`))
	})

	store := newBoltCache(t)
	client := transport.New(transport.WithCache(store))

	req, err := builderFor(t, srv.Server).BuildFetchRequest(catalog.Songs, "0")
	require.NoError(t, err)

	for range 2 {
		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, int64(2), srv.hits.Load(), "error responses must not be cached")
}

func TestClient_Do_CachePolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		policy    catalog.CachePolicy
		noStore   bool
		calls     int
		wantHits  int64
		wantCache bool
	}{
		{
			name:      "return cache data else load hits network once",
			policy:    catalog.ReturnCacheDataElseLoad,
			calls:     3,
			wantHits:  1,
			wantCache: true,
		},
		{
			name:     "reload ignoring cache always loads",
			policy:   catalog.ReloadIgnoringCacheData,
			calls:    3,
			wantHits: 3,
		},
		{
			name:     "protocol policy always loads",
			policy:   catalog.UseProtocolCachePolicy,
			calls:    2,
			wantHits: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newCountingServer(t, okHandler(`{"data":[]}`))
			client := transport.New(transport.WithCache(newBoltCache(t)))

			req, err := builderFor(t, srv.Server, catalog.WithCachePolicy(tt.policy)).
				BuildFetchRequest(catalog.Albums, "12345")
			require.NoError(t, err)

			var last *catalog.Response
			for range tt.calls {
				last, err = client.Do(context.Background(), req)
				require.NoError(t, err)
				assert.JSONEq(t, `{"data":[]}`, string(last.Body))
			}

			assert.Equal(t, tt.wantHits, srv.hits.Load())
			assert.Equal(t, tt.wantCache, last.FromCache)
		})
	}
}

func TestClient_Do_ReloadPopulatesCache(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, okHandler(`{"data":[1]}`))
	store := newBoltCache(t)
	client := transport.New(transport.WithCache(store))

	reload, err := builderFor(t, srv.Server, catalog.WithCachePolicy(catalog.ReloadIgnoringCacheData)).
		BuildFetchRequest(catalog.Songs, "1")
	require.NoError(t, err)
	_, err = client.Do(context.Background(), reload)
	require.NoError(t, err)

	offline, err := builderFor(t, srv.Server, catalog.WithCachePolicy(catalog.ReturnCacheDataDontLoad)).
		BuildFetchRequest(catalog.Songs, "1")
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), offline)
	require.NoError(t, err)
	assert.True(t, resp.FromCache)
	assert.Equal(t, int64(1), srv.hits.Load())
}

func TestClient_Do_ProtocolPolicyNoStore(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "private, no-store")
		okHandler(`{}`)(w, r)
	})
	client := transport.New(transport.WithCache(newBoltCache(t)))

	req, err := builderFor(t, srv.Server, catalog.WithCachePolicy(catalog.UseProtocolCachePolicy)).
		BuildFetchRequest(catalog.Songs, "1")
	require.NoError(t, err)
	_, err = client.Do(context.Background(), req)
	require.NoError(t, err)

	offline := req.Clone()
	offline.CachePolicy = catalog.ReturnCacheDataDontLoad
	_, err = client.Do(context.Background(), offline)
	require.ErrorIs(t, err, transport.ErrNotCached)
}

func TestClient_Do_DontLoadMiss(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, okHandler(`{}`))
	client := transport.New(transport.WithCache(newBoltCache(t)))

	req := builderFor(t, srv.Server, catalog.WithCachePolicy(catalog.ReturnCacheDataDontLoad)).
		BuildSearchRequest("nothing cached")

	_, err := client.Do(context.Background(), req)
	require.ErrorIs(t, err, transport.ErrNotCached)
	assert.Equal(t, int64(0), srv.hits.Load())
}

func TestClient_Do_PersonalizedBypassesCache(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, okHandler(`{}`))
	client := transport.New(transport.WithCache(newBoltCache(t)))

	b := builderFor(t, srv.Server).WithUserToken("user-token")
	req, err := b.AttachUserToken(b.BuildSearchRequest("mine"))
	require.NoError(t, err)

	for range 2 {
		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
	}
	assert.Equal(t, int64(2), srv.hits.Load())
}

func TestClient_Do_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		okHandler(`{}`)(w, r)
	})
	defer close(release)

	req := builderFor(t, srv.Server, catalog.WithTimeout(50*time.Millisecond)).BuildSearchRequest("slow")

	_, err := transport.New().Do(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing search request")
}

func TestClient_Do_RateLimited(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, okHandler(`{}`))
	rl := transport.NewRateLimiter(100, 10, transport.WithQuota(1, time.Hour))
	client := transport.New(transport.WithRateLimiter(rl))

	b := builderFor(t, srv.Server, catalog.WithCachePolicy(catalog.ReloadIgnoringCacheData))

	_, err := client.Do(context.Background(), b.BuildSearchRequest("one"))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), b.BuildSearchRequest("two"))
	require.ErrorIs(t, err, transport.ErrQuotaExhausted)
	assert.Equal(t, int64(1), srv.hits.Load())
}
