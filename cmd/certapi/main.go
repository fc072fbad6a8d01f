package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/412449-PICCO/generadorDiplos/internal/api"
	"github.com/412449-PICCO/generadorDiplos/internal/config"
	"github.com/412449-PICCO/generadorDiplos/internal/core"
	"github.com/412449-PICCO/generadorDiplos/internal/db"
	"github.com/412449-PICCO/generadorDiplos/internal/logging"
	"github.com/412449-PICCO/generadorDiplos/internal/mail"
	"github.com/412449-PICCO/generadorDiplos/internal/render"
	"github.com/412449-PICCO/generadorDiplos/internal/storage"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.Migrate(ctx, cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	renderer, err := render.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load certificate template")
	}

	artifacts := storage.NewS3Store(cfg, logger)
	rasterizer := render.NewBrowserRasterizer(logger)
	sender := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName, logger)
	if sender == nil {
		logger.Warn().Msg("SENDGRID_API_KEY not set, email delivery disabled")
	}

	var coreSender core.Sender
	if sender != nil {
		coreSender = sender
	}
	services := core.NewServices(pool, renderer, artifacts, rasterizer, coreSender, logger, cfg)

	srv := api.NewServer(logger, pool, services, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting certificate API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
