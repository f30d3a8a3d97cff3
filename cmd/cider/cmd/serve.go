package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/cider/api/openapi"
	"github.com/donaldgifford/cider/internal/api/handlers"
	mw "github.com/donaldgifford/cider/internal/api/middleware"
	"github.com/donaldgifford/cider/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog proxy server",
		Long: "Serves the catalog search and lookup endpoints over HTTP, answering\n" +
			"from the response cache where the cache policy allows.",
		Example: `  cider serve --config config.yaml
  CIDER_DEVELOPER_TOKEN=... cider serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log, personalize())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("closing cache", "error", err)
		}
	}()

	e := newServer(cfg, log, a)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"storefront", cfg.Catalog.Storefront,
		"cache", cfg.Cache.Type,
		"cache_policy", cfg.Catalog.CachePolicy,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newServer(cfg *config.Config, log *slog.Logger, a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.RequestLog(log))
	e.Use(mw.Recovery(log))
	e.Use(mw.Metrics())

	health := handlers.NewHealthHandler(a.ready)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("cider catalog proxy", Version)
	humaCfg.Info.Description = "Caching proxy over the Apple Music catalog API."
	api := humaecho.New(e, humaCfg)

	handlers.RegisterCatalogRoutes(api, handlers.NewCatalogHandler(a.client))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(a.limiter))
	openapi.RegisterRoutes(e, humaCfg.Info.Title)

	return e
}
