package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/podtracker/internal/api"
	"github.com/mcoot/podtracker/internal/config"
	"github.com/mcoot/podtracker/internal/factory"
)

func main() {
	configPath := flag.String("config", os.Getenv("PODS_CONFIG_FILE"), "path to a YAML config file")
	envFile := flag.String("env-file", ".env", "path to an optional .env file")
	flag.Parse()

	// Bootstrap logger until the configured level is known
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Error("failed to load env file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		logger.Error("invalid log level", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, *cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	logger.Info("application ready",
		slog.String("storage", cfg.Storage.Type),
		slog.String("revocation", cfg.Revocation.Type),
		slog.String("pod_name_scope", cfg.Pods.NameScope),
	)

	server := api.NewServer(app.Router(), cfg.Server, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		stop()
		_ = app.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
