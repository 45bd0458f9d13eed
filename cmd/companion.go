package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "promote-social.com/promote-social/internal/configs"
	"promote-social.com/promote-social/internal/extension"
)

const issuerKeyPrefix = "promote:"

var companionCmd = &cobra.Command{
	Use:   "companion",
	Short: "Run the extension companion",
	Long:  "Serves the extension protocol over a websocket and issues completion tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var store extension.Store = extension.NewMemoryStore()
		if cfg.IssuerStore == "redis" {
			client, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer client.Close()
			store = extension.NewRedisStore(client, issuerKeyPrefix)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		issuer := extension.NewIssuer(store, cfg.TokenTTL, logger)
		go issuer.Run(ctx, cfg.IssuerSweepInterval)

		companion := extension.NewCompanion(issuer, cfg.ExtensionVersion, logger)

		e := echo.New()
		e.HideBanner = true
		e.GET("/ws", echo.WrapHandler(companion.Handler(ctx)))

		go func() {
			logger.Info("companion listening",
				zap.String("addr", cfg.CompanionAddr),
				zap.String("store", cfg.IssuerStore),
			)
			if err := e.Start(cfg.CompanionAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("companion stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(companionCmd)
}
