package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/icefrost/icebot/internal/cache"
	"github.com/icefrost/icebot/internal/config"
	"github.com/icefrost/icebot/internal/db"
	"github.com/icefrost/icebot/internal/leveling"
	"github.com/icefrost/icebot/internal/skyblock"
	"github.com/icefrost/icebot/internal/status"
	"github.com/icefrost/icebot/internal/twitch"
)

const ConfigPath = "config/icebot.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Configure slog
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	slog.Info("icebot starting")

	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("ICEBOT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded", "channel", cfg.Twitch.Channel, "prefix", cfg.Twitch.Prefix)

	// Load XP tables
	data := leveling.Load(cfg.LevelingDataPath)

	// Connect to database
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	// Run migrations
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	links := db.NewLinkRepository(database.Pool())

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	client := skyblock.NewClient(cfg.Hypixel, ttl)

	bot := twitch.NewBot(cfg.Twitch, data, client, links)
	statusServer := status.NewServer(cfg.StatusAddr, bot, client)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting chat bot", "addr", cfg.Twitch.Addr)
		if err := bot.Run(gctx); err != nil {
			return fmt.Errorf("chat bot: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := statusServer.Run(gctx); err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		cache.Janitor(gctx, ttl, client.Caches()...)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
