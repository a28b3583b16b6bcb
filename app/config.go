package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restopos/restopos/internal/config"
)

func init() { //nolint:gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "dump as JSON instead of TOML")
	dumpCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "do not mask passwords and token secrets")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON    bool //nolint:gochecknoglobals
	showSecrets bool //nolint:gochecknoglobals

	configCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	dumpCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "dump",
		Short: "Print the configuration after file, .env and environment overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			if !showSecrets {
				c = c.Redacted()
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(c)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)
