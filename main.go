package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/warehouse-registry/internal/app/service"
	"github.com/mrops-br/warehouse-registry/internal/domain"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/config"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/http"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/http/handler"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/repository/memory"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry (no-op providers when export is disabled)
	telem, err := telemetry.New(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer := telem.TracerProvider.Tracer(cfg.OTLP.ServiceName)
	meter := telem.MeterProvider.Meter(cfg.OTLP.ServiceName)
	logger := telem.Logger

	logger.Info("Starting Warehouse Registry API")

	// Caller-owned registries (dependency injection)
	registry := memory.NewWarehouseRegistry(cfg.Warehouse.DefaultName, tracer, logger)
	categories := domain.NewCategoryRegistry()

	warehouseService := service.NewWarehouseService(registry, categories, tracer, meter, logger)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService, logger)

	server := http.NewServer(&cfg.Server, warehouseHandler, logger, telem)

	// Make sure the default warehouse is listed from the start
	registry.Default(ctx)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err.Error())
	}

	logger.Info("Server stopped")
}
