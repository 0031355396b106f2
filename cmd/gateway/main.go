package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careline/internal/gateway"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
)

func main() {
	log := logger.New("gateway")
	if err := run(log); err != nil {
		log.Error("gateway failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.GatewayFromEnv()

	verifier := gateway.NewAuthServiceVerifier(cfg.AuthServiceURL, cfg.ValidateTimeout)
	filter := gateway.NewFilter(verifier, log, gateway.NewMetrics())

	router, err := gateway.NewRouter(filter, cfg.AuthServiceURL, []gateway.Route{
		{Prefix: "/api", Upstream: cfg.PatientServiceURL},
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}
	router.Handle("/metrics", promhttp.Handler())

	log.Info("starting gateway", "addr", cfg.Addr,
		"auth_upstream", cfg.AuthServiceURL, "patient_upstream", cfg.PatientServiceURL)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router))
}
