package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rijista/registrar/internal/adapter/ipfs"
	"github.com/rijista/registrar/internal/adapter/story"
	"github.com/rijista/registrar/internal/adapter/yakoa"
	"github.com/rijista/registrar/internal/config"
	"github.com/rijista/registrar/internal/service"
	"github.com/rijista/registrar/internal/store"
	transport "github.com/rijista/registrar/internal/transport/http"
	"github.com/rijista/registrar/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting registration server...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Session store: %s", cfg.SessionStore)
	log.Printf("Chain gateway: %s", cfg.StoryGatewayURL)

	// Initialize session store
	var sessions store.SessionStore
	var err error
	switch cfg.SessionStore {
	case "sqlite":
		sessions, err = store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize session store: %v", err)
		}
	default:
		sessions = store.NewMemoryStore()
	}
	defer sessions.Close()

	// Initialize adapters
	pinner := ipfs.NewClient(cfg.PinataAPIURL, cfg.PinataJWT, cfg.IPFSTimeout)
	uploader := ipfs.NewUploader(pinner)
	registrar := story.NewClient(cfg.StoryGatewayURL, cfg.StoryAPIKey, cfg.ChainTimeout)
	chain := story.NewService(registrar, cfg.ExplorerBaseURL)
	protector := yakoa.NewClient(cfg.YakoaAPIURL, cfg.YakoaAPIKey, cfg.YakoaTimeout)

	// Initialize policy engine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(sessions, uploader, chain, protector, policyEngine, cfg)

	// Sweep abandoned sessions in the background
	go svc.RunSessionSweeper(ctx)

	// Create HTTP server
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server is running on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down registration server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Registration server stopped")
}
