package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/vk-comb/app/api"
	"github.com/lysyi3m/vk-comb/app/cfg"
	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/tasks"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("VK Comb stopped with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting VK Comb server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	configCache := feed.NewConfigCache(appCfg.FeedsDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load wall configurations: %w", err)
	}
	slog.Info("Wall configurations loaded", "dir", appCfg.FeedsDir, "count", configCache.GetConfigCount())

	httpClient, err := vkapi.NewHTTPClient(appCfg.Proxy, time.Duration(appCfg.HTTPTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to configure API transport: %w", err)
	}
	client := vkapi.NewClient(httpClient, vkapi.Options{
		BaseURL:     appCfg.VKBaseURL,
		Version:     appCfg.VKVersion,
		AccessToken: appCfg.VKAccessToken,
		UserAgent:   appCfg.UserAgent,
	})

	wallRepo := database.NewWallRepository(db)
	itemRepo := database.NewItemRepository(db)
	parser := feed.NewParser()
	processor := feed.NewProcessor()

	scheduler := tasks.NewScheduler(configCache, wallRepo, itemRepo, client, parser, processor,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	handler := api.NewHandler(configCache, wallRepo, itemRepo, feed.NewGenerator(appCfg.Version),
		client, parser, processor, scheduler,
		api.NewFeedCache(time.Duration(appCfg.CacheTTL)*time.Second),
		appCfg.SelfLink, time.Duration(appCfg.HTTPTimeout)*time.Second)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey, appCfg.Version),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Duration(appCfg.HTTPTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "base_url", appCfg.SelfLink(""))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case runErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return runErr
}
