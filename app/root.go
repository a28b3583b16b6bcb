// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/restopos/restopos/internal/config"
	"github.com/restopos/restopos/internal/logger"
)

var (
	configPath string        //nolint:gochecknoglobals // directory holding main.toml
	cfg        config.Config //nolint:gochecknoglobals

	rootCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "restopos",
		Short: "restopos is the backend of a restaurant point of sale",
		Long: `restopos serves a JSON API for a restaurant point of sale:
employees, roles and sessions, the product catalog, dining tables and orders.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "directory of main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config and initializes the global logger.
func loadConfig() error {
	var err error
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}
