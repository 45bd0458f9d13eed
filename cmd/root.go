package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "promote-social.com/promote-social/internal/configs"
)

var rootCmd = &cobra.Command{
	Use:           "promote-social",
	Short:         "promote.social points ledger and completion workflow",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads .env and the environment, then builds the logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}
	return cfg, logger, nil
}
