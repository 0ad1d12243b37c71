package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridiron-trends/analytics"
	"gridiron-trends/cache"
	"gridiron-trends/config"
	"gridiron-trends/handlers"
	"gridiron-trends/trend"
)

func main() {
	cfg := config.Load()

	detector, err := trend.NewDetectorWithConfig(cfg.Trend)
	if err != nil {
		log.Fatalf("Invalid trend configuration: %v", err)
	}

	synonyms, err := config.LoadSynonyms(cfg.SynonymsFile)
	if err != nil {
		log.Fatalf("Failed to load narrative synonyms: %v", err)
	}
	narrator := trend.NewNarrator(synonyms)

	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.ReportTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}
	defer redisClient.Close()
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	playHandler := handlers.NewPlayHandler(redisClient, detector, narrator, analytics.EngineConfig{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
		Retention: cfg.SeriesRetention,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handlers.NewRouter(playHandler),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on :%s (window=%d, sensitivity=%.2f, min change=%.2f)",
			cfg.Port, cfg.Trend.WindowSize, cfg.Trend.Sensitivity, cfg.Trend.MinChangeMagnitude)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	playHandler.Close()

	log.Println("Server exited")
}
