package cmd

import (
	"bytes"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cider/internal/catalog"
)

func TestPrintRequest_RedactsTokens(t *testing.T) {
	t.Parallel()

	b := catalog.NewRequestBuilder(catalog.StorefrontUS, "eyJhbGciOiJFUzI1NiJ9.devtoken").
		WithUserToken("user-token-abcdefgh-9876")
	req, err := b.AttachUserToken(b.BuildSearchRequest("hello world", catalog.WithLimit(5)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printRequest(&buf, req))
	out := buf.String()

	assert.Contains(t, out, "GET https://api.music.apple.com/v1/catalog/us/search?limit=5&term=hello+world")
	assert.Contains(t, out, "Bearer ****oken")
	assert.Contains(t, out, "****9876")
	assert.Contains(t, out, "return_cache_data_else_load")
	assert.Contains(t, out, "5s")
	assert.NotContains(t, out, "devtoken")
	assert.NotContains(t, out, "abcdefgh")
}

func TestPrintRequest_FetchWithoutUserToken(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("http://localhost:8089")
	require.NoError(t, err)

	b := catalog.NewRequestBuilder(catalog.StorefrontGB, "short", catalog.WithBaseURL(base))
	req, err := b.BuildFetchRequest(catalog.Albums, "12345", "tracks")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printRequest(&buf, req))

	assert.Contains(t, buf.String(), "GET http://localhost:8089/v1/catalog/gb/albums/12345?include=tracks")
	assert.Contains(t, buf.String(), "Bearer ****")
	assert.NotContains(t, buf.String(), "Music-User-Token")
}

func TestPrintSearchTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		want     []string
		wantErr  bool
		notFound bool
	}{
		{
			name: "rows sorted by type",
			body: `{"results":{
				"songs":{"data":[{"id":"1","type":"songs","attributes":{"name":"Get Lucky","artistName":"Daft Punk"}}]},
				"artists":{"data":[{"id":"2","type":"artists","attributes":{"name":"Daft Punk"}}]}
			}}`,
			want: []string{"TYPE", "artists", "Get Lucky", "Daft Punk"},
		},
		{
			name:     "empty results",
			body:     `{"results":{}}`,
			notFound: true,
		},
		{
			name:    "malformed body",
			body:    `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := printSearchTable(&buf, json.RawMessage(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.notFound {
				assert.Equal(t, "No results found.\n", buf.String())
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			assert.Less(t, bytes.Index(buf.Bytes(), []byte("artists")), bytes.Index(buf.Bytes(), []byte("songs")))
		})
	}
}

func TestPrintFetchTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	body := json.RawMessage(`{"data":[{"id":"617154241","type":"albums","attributes":{"name":"Random Access Memories","artistName":"Daft Punk"}}]}`)
	require.NoError(t, printFetchTable(&buf, body))
	assert.Contains(t, buf.String(), "617154241")
	assert.Contains(t, buf.String(), "Random Access Memories")

	buf.Reset()
	require.NoError(t, printFetchTable(&buf, json.RawMessage(`{"data":[]}`)))
	assert.Equal(t, "No resource found.\n", buf.String())
}

func TestOutputJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, outputJSON(&buf, json.RawMessage(`{"data":[1]}`)))
	assert.Equal(t, "{\n  \"data\": [\n    1\n  ]\n}\n", buf.String())
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Björk Guð...", truncate("Björk Guðmundsdóttir", 12))
}
