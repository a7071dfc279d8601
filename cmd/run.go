package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextlevelbuilder/posterbot/internal/config"
	"github.com/nextlevelbuilder/posterbot/internal/movies"
	"github.com/nextlevelbuilder/posterbot/internal/sessions"
	"github.com/nextlevelbuilder/posterbot/internal/stats"
	"github.com/nextlevelbuilder/posterbot/internal/telegram"
	"github.com/nextlevelbuilder/posterbot/internal/tmdb"
)

func runBot() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	catalog := tmdb.NewClient(cfg.TMDB)
	finder := movies.NewService(catalog)
	store := sessions.NewStore()
	usage := stats.New()

	channel, err := telegram.New(cfg, finder, store, usage)
	if err != nil {
		slog.Error("failed to create telegram channel", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("posterbot starting", "version", Version)
	if err := channel.Run(ctx); err != nil {
		slog.Error("update loop exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("posterbot stopped")
}
