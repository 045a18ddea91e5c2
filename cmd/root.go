// Package cmd holds the aquashop command line.
package cmd

import (
	"fmt"
	"os"

	"aquashop/config"
	"aquashop/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "aquashop",
	Short: "Live aquarium fish storefront",
	Long: `aquashop serves the storefront API: fish catalog, cart and checkout,
plus a small admin back office for orders.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, hashPasswordCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and installs the global logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return config.Config{}, nil, err
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}
