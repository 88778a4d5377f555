package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/fantasy-cricket-draft/internal/api"
	"github.com/dom/fantasy-cricket-draft/internal/config"
	"github.com/dom/fantasy-cricket-draft/internal/repository/postgres"
	"github.com/dom/fantasy-cricket-draft/internal/service"
	"github.com/dom/fantasy-cricket-draft/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// The emitter is handed to the services before the hub exists, then
	// bound once the hub is up.
	emitter := websocket.NewEmitter()
	services := service.NewServices(repos, cfg, emitter)

	hub := websocket.NewHub(services.Draft)
	emitter.Bind(hub)
	go hub.Run()

	// Background sweep for expired clocks and auto-draft seats.
	autoDraftCtx, stopAutoDraft := context.WithCancel(context.Background())
	go services.AutoDraft.Run(autoDraftCtx)

	// Initialize router
	router := api.NewRouter(services, hub, repos, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	stopAutoDraft()
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
