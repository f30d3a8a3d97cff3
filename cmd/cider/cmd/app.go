package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/cider/internal/cache"
	"github.com/donaldgifford/cider/internal/catalog"
	"github.com/donaldgifford/cider/internal/config"
	"github.com/donaldgifford/cider/internal/transport"
)

// app holds the wired catalog stack shared by the commands.
type app struct {
	builder catalog.RequestBuilder
	limiter *transport.RateLimiter
	store   cache.Store
	client  *catalog.Client
}

func newApp(cfg *config.Config, log *slog.Logger, personalized bool) (*app, error) {
	builder, err := cfg.Builder()
	if err != nil {
		return nil, fmt.Errorf("building request builder: %w", err)
	}
	if personalized && !builder.HasUserToken() {
		return nil, fmt.Errorf("--personalize: %w", catalog.ErrMissingUserToken)
	}

	store, err := cache.NewStore(cfg.Cache.Type, cfg.Cache.Path, cache.Options{
		TTL:             cfg.Cache.TTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	rl := cfg.Catalog.RateLimit
	limiter := transport.NewRateLimiter(rl.PerSecond, rl.Burst, transport.WithQuota(rl.WindowLimit, rl.Window))

	doer := transport.New(
		transport.WithCache(store),
		transport.WithRateLimiter(limiter),
		transport.WithLogger(log),
	)

	var opts []catalog.ClientOption
	if personalized {
		opts = append(opts, catalog.WithPersonalization())
	}

	return &app{
		builder: builder,
		limiter: limiter,
		store:   store,
		client:  catalog.NewClient(builder, doer, opts...),
	}, nil
}

// ready fails once the rolling quota is used up.
func (a *app) ready(_ context.Context) error {
	if a.limiter.Remaining() == 0 && time.Now().Before(a.limiter.ResetAt()) {
		return fmt.Errorf("catalog quota exhausted until %s", a.limiter.ResetAt().Format(time.RFC3339))
	}
	return nil
}

func (a *app) Close() error {
	return a.store.Close()
}
