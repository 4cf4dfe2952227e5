package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	server "accountapp/internal/adapter/http"
	"accountapp/internal/adapter/logger"
	"accountapp/internal/adapter/telemetry"
	"accountapp/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLogger, err := logger.New(logger.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Environment,
		LokiURL: cfg.LokiURL,
	})

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer appLogger.Close()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, appLogger.Zap())

	if err != nil {
		appLogger.Error("Failed to initialize telemetry", zap.Error(err))
		return
	}

	defer tel.Shutdown(context.Background())

	tel.AppMetrics.StartSystemMetrics(ctx)

	if err := server.StartServer(cfg, appLogger, tel); err != nil {
		appLogger.Error("Server stopped", zap.Error(err))
		return
	}

	appLogger.Info("Shut down gracefully")
}
