package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careline/internal/auth"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
	"careline/internal/token"
)

func main() {
	log := logger.New("auth")
	if err := run(log); err != nil {
		log.Error("auth service failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.AuthFromEnv()

	var store auth.CredentialStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		pg := auth.NewPostgresCredentialStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		store = pg
	} else {
		mem := auth.NewInMemoryCredentialStore()
		if err := mem.Seed(ctx); err != nil {
			return fmt.Errorf("seed credentials: %w", err)
		}
		log.Warn("AUTH_DATABASE_URL not set; using seeded in-memory credentials")
		store = mem
	}

	codec := token.New([]byte(cfg.JWTSigningKey))
	svc := auth.NewService(store, codec, log)

	router := auth.NewHandler(svc, auth.NewMetrics()).Routes()
	router.Handle("/metrics", promhttp.Handler())

	log.Info("starting auth service", "addr", cfg.Addr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router))
}
