package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cozyren/catalog-api/pkg/config"
	"github.com/cozyren/catalog-api/pkg/logger"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Catalog maintenance tool",
	Long: `catalogctl manages the catalog database: schema migrations and
offline price-list imports using the same reconciliation engine as the webhooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.New(logger.Config{Env: "development", Level: "info"})
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads configuration; the CLI needs only the database section to be valid.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}
