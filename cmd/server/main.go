package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jo-hoe/imagedepot/internal/core"
	"github.com/jo-hoe/imagedepot/internal/metrics"
	"github.com/jo-hoe/imagedepot/internal/server"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Fall back to config.yaml in current working directory, if present
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	configPath := filepath.Join(cwd, "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		return ""
	}
	return configPath
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	databaseService, err := core.NewDatabaseService(ctx, config)
	cancel()
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		os.Exit(1)
	}

	coreService := core.NewCoreService(databaseService)
	e := server.New(coreService, metrics.NewProm("imagedepot"))

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		slog.Info("starting server", "port", config.Port, "database", config.Database.Type)
		if err := e.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
}
