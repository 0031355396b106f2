package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"careline/internal/billing"
	"careline/internal/platform/config"
	"careline/internal/platform/httpserver"
	"careline/internal/platform/logger"
)

func main() {
	log := logger.New("billing")
	if err := run(log); err != nil {
		log.Error("billing service failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.BillingFromEnv()

	grpcServer := billing.NewGRPCServer()
	billing.Register(grpcServer, billing.NewAccountIssuer(log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	log.Info("starting billing service", "grpc_addr", cfg.GRPCAddr, "http_addr", cfg.HTTPAddr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		return httpserver.Run(ctx, httpserver.New(cfg.HTTPAddr, metricsRouter))
	})
	g.Go(func() error {
		<-ctx.Done()
		grpcServer.GracefulStop()
		return nil
	})
	return g.Wait()
}
