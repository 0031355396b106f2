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

	"careline/internal/billing"
	"careline/internal/events"
	"careline/internal/patient"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
)

func main() {
	log := logger.New("patient")
	if err := run(log); err != nil {
		log.Error("patient service failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.PatientFromEnv()

	var store patient.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		pg := patient.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		store = pg
	} else {
		log.Warn("PATIENT_DATABASE_URL not set; using in-memory store")
		store = patient.NewInMemoryStore()
	}

	bill, err := billing.NewClient(cfg.BillingAddr, cfg.BillingTimeout, log)
	if err != nil {
		return fmt.Errorf("billing client: %w", err)
	}
	defer bill.Close()

	publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log, events.NewMetrics())
	if err != nil {
		return fmt.Errorf("event publisher: %w", err)
	}
	defer publisher.Close()
	if err := publisher.EnsureTopic(ctx, 1, 1); err != nil {
		// Creation is retried implicitly on first produce; don't block startup.
		log.Warn("could not ensure topic", "topic", cfg.KafkaTopic, "error", err)
	}

	coordinator := patient.NewCoordinator(store, bill, publisher, log,
		patient.WithMetrics(patient.NewMetrics()))

	router := patient.NewHandler(coordinator).Routes()
	router.Handle("/metrics", promhttp.Handler())

	log.Info("starting patient service", "addr", cfg.Addr, "billing_addr", cfg.BillingAddr)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router))
}
