package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/restopos/restopos/internal/daemon"
	"github.com/restopos/restopos/internal/db"
)

func init() { //nolint:gochecknoinits
	migrateCmd.Flags().BoolVar(&skipSeed, "no-seed", false, "only migrate the schema")

	rootCmd.AddCommand(migrateCmd)
}

var (
	skipSeed bool //nolint:gochecknoglobals

	migrateCmd = &cobra.Command{ //nolint:gochecknoglobals
		Use:   "migrate",
		Short: "Create or update the database schema and seed the built-in data",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := daemon.Open(cmd.Context(), &cfg)
			if err != nil {
				return err
			}

			defer func() {
				if err := db.Close(gdb); err != nil {
					log.Error().Err(err).Msg("failed to close database")
				}
			}()

			if skipSeed {
				return nil
			}

			svc, err := daemon.NewServices(&cfg, gdb)
			if err != nil {
				return err
			}

			return daemon.Seed(cmd.Context(), &cfg, svc)
		},
	}
)
