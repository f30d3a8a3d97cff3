// Package main implements a mock Apple Music catalog API for local development.
// It serves search and resource lookups from a JSON fixture and rejects
// requests that do not carry a developer token.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSearchLimit = 5

type resource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Href       string          `json:"href,omitempty"`
	Attributes json.RawMessage `json:"attributes"`
}

type fixtureFile struct {
	Resources []resource `json:"resources"`
}

type resourceName struct {
	Name string `json:"name"`
}

type dataResponse struct {
	Data []resource `json:"data"`
}

type apiError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixturePath := flag.String("fixture", "tools/mock-server/testdata/catalog.json", "path to catalog fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "resources", len(fixture.Resources))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock catalog server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(logger, fixture),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, fixture *fixtureFile) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/catalog/{storefront}/search", searchHandler(logger, fixture))
	mux.HandleFunc("GET /v1/catalog/{storefront}/{type}/{id}", fetchHandler(logger, fixture))
	return requestLogger(logger, requireDeveloperToken(logger, mux))
}

func loadFixture(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"personalized", r.Header.Get("Music-User-Token") != "",
		)
		next.ServeHTTP(w, r)
	})
}

// requireDeveloperToken accepts any non-empty bearer token.
func requireDeveloperToken(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			logger.Warn("request missing developer token", "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Authentication Failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func searchHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	names := make([]string, len(fixture.Resources))
	for i, res := range fixture.Resources {
		var n resourceName
		//nolint:errcheck,gosec // fixture data is trusted; name extraction is best-effort
		json.Unmarshal(res.Attributes, &n)
		names[i] = strings.ToLower(n.Name)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		storefront := r.PathValue("storefront")
		term := strings.ToLower(r.URL.Query().Get("term"))
		if term == "" {
			writeError(w, http.StatusBadRequest, "Missing term parameter")
			return
		}

		limit := defaultSearchLimit
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}

		var types map[string]bool
		if raw := r.URL.Query().Get("types"); raw != "" {
			types = make(map[string]bool)
			for t := range strings.SplitSeq(raw, ",") {
				types[t] = true
			}
		}

		results := make(map[string]dataResponse)
		for i, res := range fixture.Resources {
			if types != nil && !types[res.Type] {
				continue
			}
			if !strings.Contains(names[i], term) {
				continue
			}
			group := results[res.Type]
			if len(group.Data) >= limit {
				continue
			}
			group.Data = append(group.Data, withHref(res, storefront))
			results[res.Type] = group
		}

		writeJSON(w, http.StatusOK, map[string]any{"results": results})
		logger.Info("search", "storefront", storefront, "term", term, "types", len(results), "limit", limit)
	}
}

func fetchHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storefront := r.PathValue("storefront")
		typ := r.PathValue("type")
		id := r.PathValue("id")

		for _, res := range fixture.Resources {
			if res.Type == typ && res.ID == id {
				writeJSON(w, http.StatusOK, dataResponse{Data: []resource{withHref(res, storefront)}})
				logger.Info("fetch", "type", typ, "id", id, "include", r.URL.Query().Get("include"))
				return
			}
		}

		writeError(w, http.StatusNotFound, "Resource Not Found")
		logger.Info("fetch miss", "type", typ, "id", id)
	}
}

func withHref(res resource, storefront string) resource {
	res.Href = fmt.Sprintf("/v1/catalog/%s/%s/%s", storefront, res.Type, res.ID)
	return res
}

func writeError(w http.ResponseWriter, status int, title string) {
	writeJSON(w, status, errorResponse{Errors: []apiError{{
		Status: strconv.Itoa(status),
		Title:  title,
	}}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
