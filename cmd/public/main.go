package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productsync/internal/api"
	"productsync/internal/application/factories/infrastructure"
	"productsync/internal/config"
	"productsync/internal/infrastructure/postgres"
	"productsync/internal/infrastructure/rabbitmq"
	"productsync/internal/replicator"
	"productsync/internal/usecase"
)

func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg, logger)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	replicaRepo := postgres.NewReplicaRepository(pgPool)
	if err := replicaRepo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Redis backs the product list cache only; the service runs without it.
	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Warn("redis unavailable, list cache disabled", "error", err)
		redisClient = nil
	}

	broker := infraFactory.Broker()
	go broker.Run(ctx)

	// Replication consumer: resubscribes on every session the manager
	// establishes.
	applier := replicator.NewApplier(replicaRepo, logger)
	consumer := rabbitmq.NewConsumer(logger)
	applier.Register(consumer)
	go consumer.Run(ctx, broker)

	adminClient := infraFactory.AdminClient()

	listReplicasUC := usecase.NewListReplicas(redisClient, replicaRepo)
	likeReplicaUC := usecase.NewLikeReplica(replicaRepo, adminClient, redisClient)

	handlers := api.NewPublicHandlers(listReplicasUC, likeReplicaUC)
	router := api.NewPublicRouter(handlers)

	logger.Info("waiting for broker channel")
	if err := broker.WaitReady(ctx); err != nil {
		logger.Error("shutdown before broker became ready", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		logger.Info("public service starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
