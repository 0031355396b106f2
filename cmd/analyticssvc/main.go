package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"careline/internal/analytics"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
)

func main() {
	log := logger.New("analytics")
	if err := run(log); err != nil {
		log.Error("analytics service failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.AnalyticsFromEnv()

	stats := analytics.NewStats()
	handler := analytics.NewHandler(stats, log, analytics.NewMetrics())

	consumer, err := analytics.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, handler, log)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	router := stats.Routes()
	router.Handle("/metrics", promhttp.Handler())

	log.Info("starting analytics service", "addr", cfg.Addr,
		"topic", cfg.KafkaTopic, "group", cfg.KafkaGroup)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(ctx)
	})
	g.Go(func() error {
		return httpserver.Run(ctx, httpserver.New(cfg.Addr, router))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
