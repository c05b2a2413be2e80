// Package main is the entry point for the inventory admin server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	api "inventario/admin/internal/handler"
	database "inventario/admin/internal/repository"
	core "inventario/admin/internal/service"
	"inventario/admin/pkg/config"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := core.SetupLogger(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("debug", cfg.Server.Debug).
		Msg("Configuration loaded")

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	limiter := core.NewLoginLimiter(cfg.RateLimit.MaxAttempts,
		time.Duration(cfg.RateLimit.BlockMinutes)*time.Minute)

	images, err := core.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Uploads.Dir).Msg("Failed to prepare upload directory")
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(core.RequestLogger())
	r.Use(core.Recovery())

	r.SetFuncMap(api.ViewFuncs())
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "web/static")
	r.Static("/uploads/products", images.Dir())

	api.SetupRouter(r, &api.Dependencies{
		DB:      db,
		Config:  cfg,
		Limiter: limiter,
		Images:  images,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}
