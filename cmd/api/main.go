package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/cambroos/rentals-backend/api/routes"
	"github.com/cambroos/rentals-backend/internal/relay"
	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/mailer"
	"github.com/cambroos/rentals-backend/pkg/metrics"
	"github.com/cambroos/rentals-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := mailer.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(ctx, "failed to configure smtp", err)
		os.Exit(1)
	}
	if err := sender.Verify(ctx); err != nil {
		logg.WarnErr(ctx, "smtp verification failed, sends may fail", err)
	} else {
		logg.Info(ctx, "smtp server is ready to take messages")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured, rate limiting and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	relayMetrics := metrics.NewRelayMetrics(registry)

	relayService, err := relay.NewService(relay.ServiceParams{
		Sender:      sender,
		FromAddress: sender.SenderAddress(),
		Mail:        cfg.Mail,
		Logger:      logg,
		Metrics:     relayMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create relay service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"admin_email": cfg.Mail.AdminEmail,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			Relay:    relayService,
			Metrics:  relayMetrics,
			Redis:    redisClient,
			Gatherer: registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			closeAll(redisClient)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = multierr.Append(server.Shutdown(shutdownCtx), closeAll(redisClient))
	if err != nil {
		logg.Error(serverCtx, "error during shutdown", err)
		os.Exit(1)
	}
}

func closeAll(redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}
