package main

import "errors"

// KnownMetrics is the set of metric names exported by cider plus recording
// rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"cider_http_request_duration_seconds": true,
	"cider_http_requests_total":           true,

	// Health metrics.
	"cider_healthz_up": true,
	"cider_readyz_up":  true,

	// Catalog API metrics.
	"cider_catalog_requests_total":           true,
	"cider_catalog_request_duration_seconds": true,
	"cider_catalog_errors_total":             true,

	// Cache metrics.
	"cider_cache_hits_total":   true,
	"cider_cache_misses_total": true,

	// Quota metrics.
	"cider_quota_usage":            true,
	"cider_quota_limit_hits_total": true,

	// Recording rules.
	"cider:http_requests:rate5m":           true,
	"cider:http_errors:rate5m":             true,
	"cider:catalog_requests:rate5m":        true,
	"cider:catalog_upstream_errors:rate5m": true,
	"cider:cache_hit_ratio:rate5m":         true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
