// Command main is the entry point for the estate listing API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate/internal/bootstrap"
	"estate/internal/config"
	"estate/internal/events"
	"estate/internal/middleware"
	"estate/internal/observability"
	"estate/internal/server"
	"estate/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.InitMiddleware(cfg)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "estate-api",
		Environment:  cfg.Env,
		Enabled:      os.Getenv("TRACING_ENABLED") == "true",
		Exporter:     os.Getenv("TRACING_EXPORTER"),
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
		SamplerRatio: 1.0,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedDemoData: os.Getenv("DEV_SEED_DEMO") == "true",
	})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	publisher, err := events.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient, storage.NewClient(cfg), publisher)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := srv.App()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		observability.Logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("Server shutdown error", "error", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			observability.Logger.Error("Server resource shutdown error", "error", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			observability.Logger.Error("Tracing shutdown error", "error", err)
		}
	}()

	observability.Logger.Info("Server starting", "port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
