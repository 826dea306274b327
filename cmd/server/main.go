package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dealspy/internal/config"
	"dealspy/internal/db"
	"dealspy/internal/gemini"
	"dealspy/internal/jobs"
	"dealspy/internal/metrics"
	"dealspy/internal/notify"
	"dealspy/internal/pricing"
	"dealspy/internal/search"
	"dealspy/internal/server"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

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

	// Register Prometheus collectors
	metrics.Init(database)

	// Price discovery pipeline
	geminiClient := gemini.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey)
	ladder := search.NewLadder(geminiClient)

	var sender notify.PushSender
	if cfg.FCMEndpoint != "" && cfg.FCMCredentialsFile != "" {
		fcmSender, err := notify.NewFCMSender(cfg.FCMEndpoint, cfg.FCMCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize FCM: %v", err)
		}
		sender = fcmSender
	} else {
		log.Println("FCM not configured; push notifications will be logged only")
		sender = notify.LogSender{}
	}
	notifier := notify.New(database, sender, cfg.NotifyWorkers)
	updater := pricing.New(database, ladder, notifier, cfg.UpdateDelay)

	// Background price refresh
	job := jobs.NewPriceUpdateJob(updater, cfg.UpdateInterval)
	go job.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, updater, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	notifier.Close()
	log.Println("Server exited")
}
