package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pep299/leeai-studio/internal/config"
	"github.com/pep299/leeai-studio/internal/handlers"
)

var (
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("LeeAI Studio Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  GEMINI_API_KEY        Gemini API key (required)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		fmt.Printf("  ALLOWED_ORIGINS       Comma-separated CORS origins (default: http://localhost:5173)\n")
		fmt.Printf("  TTS_PROVIDER          Speech provider: google or openai (default: google)\n")
		fmt.Printf("  OPENAI_API_KEY        OpenAI API key (required for openai speech)\n")
		fmt.Printf("  CACHE_TYPE            Cache type: memory, sqlite or cloud-storage (default: memory)\n")
		fmt.Printf("  CACHE_PURGE_SCHEDULE  Cron spec for expired entry purges (default: @every 10m)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("LeeAI Studio Server\n")
		fmt.Printf("Version: %s\n", handlers.Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create server
	server, err := handlers.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer server.Close()

	// Audio requests chain a model call and a speech call, so writes get
	// more time than reads
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CachePurgeSchedule, func() {
		if err := server.PurgeCache(ctx); err != nil {
			log.Printf("❌ Cache purge failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid CACHE_PURGE_SCHEDULE %q: %v", cfg.CachePurgeSchedule, err)
	}
	log.Printf("📅 Scheduled cache purge: %s", cfg.CachePurgeSchedule)
	c.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Starting server on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	log.Println("🛑 Shutting down server...")

	cancel()
	<-c.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Server stopped")
}
