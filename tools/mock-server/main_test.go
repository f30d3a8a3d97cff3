package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestFixture(t *testing.T) *fixtureFile {
	t.Helper()
	f, err := loadFixture(filepath.Join("testdata", "catalog.json"))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return f
}

func serve(t *testing.T, target string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	if authorized {
		req.Header.Set("Authorization", "Bearer dev-token")
	}
	w := httptest.NewRecorder()
	newMux(testLogger(), loadTestFixture(t)).ServeHTTP(w, req)
	return w
}

func TestLoadFixture(t *testing.T) {
	fixture := loadTestFixture(t)
	if len(fixture.Resources) == 0 {
		t.Fatal("expected resources in fixture")
	}
	for _, res := range fixture.Resources {
		if res.ID == "" || res.Type == "" {
			t.Errorf("resource missing id or type: %+v", res)
		}
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := loadFixture(filepath.Join("testdata", "missing.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestMissingDeveloperToken(t *testing.T) {
	w := serve(t, "/v1/catalog/us/search?term=daft", false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Status != "401" {
		t.Errorf("errors=%+v, want one 401 error", resp.Errors)
	}
}

func TestSearchHandler_GroupsByType(t *testing.T) {
	w := serve(t, "/v1/catalog/us/search?term=daft+punk", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Results map[string]dataResponse `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results["artists"].Data) != 1 {
		t.Errorf("artists=%d, want 1", len(resp.Results["artists"].Data))
	}
	if len(resp.Results["playlists"].Data) != 1 {
		t.Errorf("playlists=%d, want 1", len(resp.Results["playlists"].Data))
	}
	if got := resp.Results["artists"].Data[0].Href; got != "/v1/catalog/us/artists/5468295" {
		t.Errorf("href=%s", got)
	}
}

func TestSearchHandler_TypesAndLimit(t *testing.T) {
	w := serve(t, "/v1/catalog/gb/search?term=o&types=albums%2Csongs&limit=1", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Results map[string]dataResponse `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("result groups=%d, want 2", len(resp.Results))
	}
	for typ, group := range resp.Results {
		if typ != "albums" && typ != "songs" {
			t.Errorf("unexpected type %s", typ)
		}
		if len(group.Data) != 1 {
			t.Errorf("%s returned %d, want 1", typ, len(group.Data))
		}
	}
}

func TestSearchHandler_MissingTerm(t *testing.T) {
	w := serve(t, "/v1/catalog/us/search", true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestFetchHandler(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantID     string
	}{
		{name: "album", target: "/v1/catalog/us/albums/617154241?include=tracks", wantStatus: http.StatusOK, wantID: "617154241"},
		{name: "music video", target: "/v1/catalog/jp/music-videos/639032181", wantStatus: http.StatusOK, wantID: "639032181"},
		{name: "type mismatch", target: "/v1/catalog/us/songs/617154241", wantStatus: http.StatusNotFound},
		{name: "unknown id", target: "/v1/catalog/us/albums/0", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.target, true)
			if w.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantID == "" {
				return
			}

			var resp dataResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(resp.Data) != 1 || resp.Data[0].ID != tt.wantID {
				t.Errorf("data=%+v, want id %s", resp.Data, tt.wantID)
			}
		})
	}
}
