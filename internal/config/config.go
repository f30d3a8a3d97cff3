// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/cider/internal/catalog"
)

// Config is the top-level application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig defines Apple Music API settings.
type CatalogConfig struct {
	Storefront     string          `yaml:"storefront"`
	DeveloperToken string          `yaml:"developer_token"`
	UserToken      string          `yaml:"user_token"`
	BaseURL        string          `yaml:"base_url"`
	CachePolicy    string          `yaml:"cache_policy"`
	Timeout        time.Duration   `yaml:"timeout"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side pacing of catalog API calls.
type RateLimitConfig struct {
	PerSecond   float64       `yaml:"per_second"`
	Burst       int           `yaml:"burst"`
	WindowLimit int64         `yaml:"window_limit"` // 0 disables the quota
	Window      time.Duration `yaml:"window"`
}

// CacheConfig defines the response cache.
type CacheConfig struct {
	Type            string        `yaml:"type"` // none, bbolt
	Path            string        `yaml:"path"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and applying defaults. Validation is left to the caller so
// flag and environment overrides can be layered on first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns a configuration with every default applied. Callers fill
// in credentials from flags or the environment and then call Validate.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate reports every invalid or missing setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog.DeveloperToken == "" {
		errs = append(errs, fmt.Errorf("catalog.developer_token is required"))
	}
	if _, err := catalog.ParseStorefront(c.Catalog.Storefront); err != nil {
		errs = append(errs, fmt.Errorf("catalog.storefront: %w", err))
	}
	if _, err := catalog.ParseCachePolicy(c.Catalog.CachePolicy); err != nil {
		errs = append(errs, fmt.Errorf("catalog.cache_policy: %w", err))
	}
	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("catalog.base_url must be an absolute URL (got %q)", c.Catalog.BaseURL))
	}
	if c.Catalog.RateLimit.WindowLimit < 0 {
		errs = append(errs, fmt.Errorf("catalog.rate_limit.window_limit must not be negative"))
	}

	switch c.Cache.Type {
	case "none":
	case "bbolt":
		if c.Cache.Path == "" {
			errs = append(errs, fmt.Errorf("cache.path is required when type is bbolt"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.type must be one of: none, bbolt (got %q)", c.Cache.Type))
	}

	return errors.Join(errs...)
}

func applyDefaults(cfg *Config) {
	applyCatalogDefaults(&cfg.Catalog)
	applyCacheDefaults(&cfg.Cache)
	applyServerDefaults(&cfg.Server)
	applyLoggingDefaults(&cfg.Logging)
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Storefront == "" {
		c.Storefront = string(catalog.StorefrontUS)
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.music.apple.com"
	}
	if c.CachePolicy == "" {
		c.CachePolicy = catalog.ReturnCacheDataElseLoad.String()
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	applyRateLimitDefaults(&c.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 20
	}
	if r.Burst == 0 {
		r.Burst = 20
	}
	if r.Window == 0 {
		r.Window = time.Hour
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.Type == "" {
		c.Type = "none"
	}
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = time.Hour
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Builder constructs the catalog request builder described by c.
func (c *Config) Builder() (catalog.RequestBuilder, error) {
	sf, err := catalog.ParseStorefront(c.Catalog.Storefront)
	if err != nil {
		return catalog.RequestBuilder{}, err
	}
	policy, err := catalog.ParseCachePolicy(c.Catalog.CachePolicy)
	if err != nil {
		return catalog.RequestBuilder{}, err
	}
	base, err := url.Parse(c.Catalog.BaseURL)
	if err != nil {
		return catalog.RequestBuilder{}, fmt.Errorf("parsing base URL: %w", err)
	}

	return catalog.NewRequestBuilder(
		sf,
		c.Catalog.DeveloperToken,
		catalog.WithCachePolicy(policy),
		catalog.WithTimeout(c.Catalog.Timeout),
		catalog.WithBaseURL(base),
		catalog.WithInitialUserToken(c.Catalog.UserToken),
	), nil
}
