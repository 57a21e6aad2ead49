package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	server "storefront/internal/adapter/http"
	"storefront/internal/adapter/logger"
	"storefront/internal/adapter/telemetry"
	"storefront/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)

	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	appLogger, err := logger.New(cfg.Telemetry.ServiceName, cfg.Telemetry.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Zap().Error("Server stopped", zap.Error(err))
		appLogger.Sync()
		os.Exit(1)
	}

	appLogger.Zap().Info("Shut down gracefully")
	appLogger.Sync()
}

func run(cfg *config.AppConfig, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewContainer(cfg.Telemetry, cfg.Env, slog.Default())

	if err != nil {
		return err
	}

	defer tel.Shutdown(context.Background())

	tel.AppMetrics.StartSystemMetrics(ctx)

	return server.StartServer(ctx, cfg, appLogger, tel)
}
