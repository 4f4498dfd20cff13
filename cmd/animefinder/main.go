package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"animefinder.org/animefinder/internal/catalog"
	"animefinder.org/animefinder/internal/config"
	"animefinder.org/animefinder/internal/httpserver"
	"animefinder.org/animefinder/internal/observability"
	"animefinder.org/animefinder/internal/reviews"
	"animefinder.org/animefinder/internal/session"
	"animefinder.org/animefinder/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sessions, err := session.NewManager(session.Config{
		HashKey:     cfg.SessionHashKey,
		BlockKey:    cfg.SessionBlockKey,
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		logger.Fatal("init session manager", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, httpClient, logger)
	if err != nil {
		logger.Fatal("init catalog client", zap.Error(err))
	}

	userStore, err := users.NewHTTPStore(cfg.UserAPIURL, httpClient)
	if err != nil {
		logger.Fatal("init user store", zap.Error(err))
	}
	userService := users.NewService(userStore, logger)

	reviewStore, err := reviews.NewHTTPStore(cfg.ReviewAPIURL, httpClient)
	if err != nil {
		logger.Fatal("init review store", zap.Error(err))
	}
	reviewLedger := reviews.NewLedger(reviewStore, catalogClient, logger)

	srv := httpserver.New(httpserver.Config{
		Address:  cfg.HTTPAddr,
		Sessions: sessions,
		Catalog:  catalogClient,
		Auth:     userService,
		Reviews:  reviewLedger,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("address", cfg.HTTPAddr))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}
