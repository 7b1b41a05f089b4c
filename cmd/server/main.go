package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"reviewgate/internal/config"
	"reviewgate/internal/db"
	"reviewgate/internal/email"
	"reviewgate/internal/jobs"
	"reviewgate/internal/metrics"
	"reviewgate/internal/server"
	"reviewgate/internal/verifier"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	offsets, err := yamlCfg.ScheduleOffsets()
	if err != nil {
		log.Fatalf("Invalid verification schedule: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	metrics.Init(database)

	notifier := email.NewNotifier(cfg)
	checker := verifier.NewGoogleChecker(database, notifier, cfg.GoogleReviewsEndpoint)
	scheduler := jobs.NewScheduler(database, offsets)
	processor := jobs.NewProcessor(database, checker, cfg.ProcessorBatchSize, cfg.ProcessorInterval)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, yamlCfg, notifier, scheduler, processor); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go processor.Start(ctx)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	<-ctx.Done()

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
