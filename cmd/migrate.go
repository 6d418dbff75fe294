package main

import (
	"github.com/RaikyD/store-admin/internal/config"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/migrate"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		logger.Init(cfg.Production(), cfg.LOG_LEVEL)
		defer logger.Sync()

		if err := migrate.Up(cfg.DB_STRING); err != nil {
			return err
		}
		v, err := migrate.Version(cfg.DB_STRING)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "version", v)
		return nil
	},
}
