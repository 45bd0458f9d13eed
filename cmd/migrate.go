package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "promote-social.com/promote-social/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		database, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(database); err != nil {
			return err
		}

		logger.Info("database migrated", zap.String("dsn", redactDSN(cfg.DatabaseDSN)))
		return nil
	},
}

func redactDSN(dsn string) string {
	if len(dsn) > 12 {
		return dsn[:12] + "..."
	}
	return dsn
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
