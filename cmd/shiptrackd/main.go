package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/api"
	"ship-tracker-backend/internal/db"
	"ship-tracker-backend/internal/ingest"
	"ship-tracker-backend/internal/store"
	"ship-tracker-backend/internal/transform"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	cfg.Log.Setup(os.Stdout)
	log.Infof("configuration loaded from %s", configPath)

	regions, err := transform.RegionsFromConfig(cfg.Regions)
	if err != nil {
		log.Fatalf("invalid regions: %v", err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.WithField("driver", cfg.Database.Driver).Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	transformer := transform.NewTransformer(transform.NewLocator(regions), nil)

	ingestSvc := ingest.NewService(cfg.Ingest, appStore)
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		ingestSvc.Run(ctx)
	}()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(appStore, transformer, cfg)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		log.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server Shutdown: %v", err)
	}

	select {
	case <-ingestDone:
	case <-shutdownCtx.Done():
		log.Warn("ingestion did not stop before the shutdown deadline")
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}
