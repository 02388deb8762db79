package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-services/internal/platform/config"
	"pet-services/internal/platform/logger"
	"pet-services/internal/router"
)

// @title Pet Services API
// @version 1.0
// @description Citas veterinarias, grooming, hospedaje, catálogo y recetas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.LogLevel),
		Env:   cfg.Env,
		App:   cfg.AppName,
	})
	if z, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}
	if cfg.DevAuth() {
		log.Warn("JWT_SECRET not set: dev auth mode (X-Debug-* headers)", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := router.Setup(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer cleanup()

	if cfg.JobsEnabled {
		if err := app.Scheduler.Start(); err != nil {
			log.Error("cron start failed", map[string]any{"error": err})
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env, "store": cfg.StoreDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err})
	}
	if cfg.JobsEnabled {
		app.Scheduler.Stop(shutdownCtx)
	}
}
