package main

import (
	"context"
	"errors"
	"os"
	"time"

	"trimestre/internal/amqp"
	"trimestre/internal/backend"
	"trimestre/internal/cli"
	applog "trimestre/internal/log"
	"trimestre/internal/services"
	"trimestre/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentWorker)

	logger.Info("Starting trimestre-worker")

	if !cfg.SyncEnabled() {
		logger.Error("No sync backend configured", "hint", "set SYNC_BACKEND to memory, sheets or sqlite")
		os.Exit(1)
	}

	configs, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	backends, err := backend.NewFactory(logger).CreateAll(context.Background(), configs)
	if err != nil {
		logger.Error("Failed to initialize backends", applog.FieldError, err)
		os.Exit(1)
	}

	targets := make([]services.Target, 0, len(backends))
	var recorder worker.SyncRecorder
	for _, b := range backends {
		targets = append(targets, services.Target{Name: string(b.Type), Upserter: b.Backend})
		// the sqlite backend also keeps the delivery audit log
		if r, ok := b.Backend.(worker.SyncRecorder); ok && recorder == nil {
			recorder = r
		}
	}
	fanOut := services.NewSyncService(targets, nil, cfg.SyncTimeout, logger)
	syncWorker := worker.NewSyncWorker(fanOut, recorder, logger)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		_ = backend.Cleanup(backends)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close failed", applog.FieldError, err)
		}
		if err := backend.Cleanup(backends); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	})

	go func() {
		err := amqpClient.ConsumeQuarterSync(ctx, syncWorker.HandleSyncMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	logger.Info("Consuming quarter sync messages", "queue", cfg.AMQPQueue, "targets", len(targets))
	cli.WaitForShutdown(ctx, done)
}
