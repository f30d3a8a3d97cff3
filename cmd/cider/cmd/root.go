// Package cmd implements the cider CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/cider/internal/config"
	"github.com/donaldgifford/cider/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "cider",
		Short: "Build and send Apple Music catalog requests",
		Long: "cider builds authenticated Apple Music catalog API requests.\n" +
			"It can search the catalog, fetch single resources, print the exact\n" +
			"request it would send, or run a caching proxy over the catalog API.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (defaults apply when unset)")
	flags.String("storefront", "", "two-letter storefront code (default us)")
	flags.String("developer-token", "", "developer token (JWT) sent as the bearer credential")
	flags.String("user-token", "", "Music-User-Token for personalized requests")
	flags.Bool("personalize", false, "attach the user token to every request")
	flags.String("output", "table", "output format (table, json)")
	flags.Bool("dry-run", false, "print the built request without sending it")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("server", "", "send search and fetch through a running cider server at this URL")

	for _, name := range []string{
		"storefront", "developer-token", "user-token", "personalize", "output", "dry-run", "log-level", "server",
	} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(quotaCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env file:", err)
	}

	viper.SetEnvPrefix("CIDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// overrides are the settings that flags and CIDER_* variables layer over
// the config file.
type overrides struct {
	Storefront     string
	DeveloperToken string
	UserToken      string
	LogLevel       string
}

func overridesFromViper() overrides {
	return overrides{
		Storefront:     viper.GetString("storefront"),
		DeveloperToken: viper.GetString("developer-token"),
		UserToken:      viper.GetString("user-token"),
		LogLevel:       viper.GetString("log-level"),
	}
}

// resolveConfig loads path (or the defaults when path is empty), applies o
// and validates the result.
func resolveConfig(path string, o overrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if o.Storefront != "" {
		cfg.Catalog.Storefront = o.Storefront
	}
	if o.DeveloperToken != "" {
		cfg.Catalog.DeveloperToken = o.DeveloperToken
	}
	if o.UserToken != "" {
		cfg.Catalog.UserToken = o.UserToken
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := resolveConfig(cfgFile, overridesFromViper())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func dryRun() bool {
	return viper.GetBool("dry-run")
}

func personalize() bool {
	return viper.GetBool("personalize")
}

func serverURL() string {
	return viper.GetString("server")
}
