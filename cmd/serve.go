package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "promote-social.com/promote-social/internal/configs"
	httpapi "promote-social.com/promote-social/internal/http"
	"promote-social.com/promote-social/internal/metrics"
	repository "promote-social.com/promote-social/internal/repositories"
	"promote-social.com/promote-social/internal/services"
	"promote-social.com/promote-social/internal/verification"
)

const (
	verifierMaxFailures = 5
	verifierCooldown    = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the promote.social HTTP API and the expired token purge loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if err := cfg.RequireServerSecrets(); err != nil {
			return err
		}

		database, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(database); err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		svc := newServices(repository.New(database), cfg, logger, metrics.New(reg))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go svc.tokens.RunPurge(ctx, cfg.IssuerSweepInterval)

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, svc.handler(logger), httpapi.RouteConfig{
			RateLimitPerMinute: cfg.RateLimit,
			JWTSecret:          cfg.JWTSecret,
			AdminAPIKey:        cfg.AdminAPIKey,
			Gatherer:           reg,
			Logger:             logger,
		})

		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()

		echoCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(echoCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

type serviceSet struct {
	users         *services.UserService
	tasks         *services.TaskService
	tokens        *services.TokenService
	completions   *services.CompletionService
	verifications *services.VerificationService
}

func newServices(repos *repository.Repositories, cfg config.Config, logger *zap.Logger, m *metrics.Metrics) serviceSet {
	verifier := verification.NewBreakerVerifier(
		"platform-verifier",
		verification.NewRegistry(verification.ManualVerifier{}),
		verifierMaxFailures,
		verifierCooldown,
	)

	tokens := services.NewTokenService(repos, cfg.TokenTTL, logger, m)
	verifications := services.NewVerificationService(repos, verifier, logger)

	return serviceSet{
		users:         services.NewUserService(repos, cfg.SignupBonusPoints, logger),
		tasks:         services.NewTaskService(repos, logger, m),
		tokens:        tokens,
		completions:   services.NewCompletionService(repos, tokens, verifications, logger, m),
		verifications: verifications,
	}
}

func (s serviceSet) handler(logger *zap.Logger) *httpapi.Handler {
	return httpapi.NewHandler(s.users, s.tasks, s.tokens, s.completions, s.verifications, logger)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
