package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/feastline/order-pipeline/internal/config"
	"github.com/feastline/order-pipeline/internal/db"
	"github.com/feastline/order-pipeline/internal/kafka"
	"github.com/feastline/order-pipeline/internal/logger"
	"github.com/feastline/order-pipeline/internal/notify"
	"github.com/feastline/order-pipeline/internal/repository/postgresql"
	"github.com/feastline/order-pipeline/internal/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zl := logger.New()
	defer func() { _ = zl.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	database, err := db.NewDb(ctx, cfg.DB.DSN())
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	defer database.Close()

	registry := ws.NewRegistry()
	gateway := ws.NewServer(registry, cfg.OutboundQueueSize, zl.Named("ws"))
	dispatcher := notify.NewDispatcher(registry, zl.Named("notify"))

	orderRepo := postgresql.NewOrderRepo(database)
	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:           cfg.KafkaBrokers,
		Topic:             cfg.KafkaTopic,
		GroupID:           cfg.KafkaGroupID,
		StrictTransitions: cfg.StrictTransitions,
	}, orderRepo, dispatcher, zl.Named("consumer"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gateway.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		return consumer.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		// A dead broker connection is unrecoverable here; exit non-zero and
		// let the supervisor restart the process.
		zl.Fatal("pipeline terminated", zap.Error(err))
	}

	zl.Info("pipeline stopped")
}
