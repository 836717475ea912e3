// Command tracker runs the GameMaker Server player-count tracker: a
// background status poller plus the HTTP endpoint serving stat cards.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/kvba0000/gms-stats-tracker-go/internal/config"
	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/server"
	"github.com/kvba0000/gms-stats-tracker-go/internal/tracker"
)

func main() {
	godotenv.Load() //nolint:errcheck // a missing .env is fine

	configPath := flag.String("config", "tracker.yaml", "Path to the configuration file")
	port := flag.String("port", "", "HTTP listen port (overrides config and PORT env)")
	logLevel := flag.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL env)")
	noColor := flag.Bool("no-color", false, "Disable colored output (overrides TTY detection)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		level = logger.ParseLevel(cfg.LogLevel)
	}
	colored := !*noColor && term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

	log, err := logger.Setup(logger.Config{
		Level:     level,
		FileLevel: slog.LevelDebug,
		Colored:   colored,
		LogDir:    cfg.LogDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("🚀 Starting gms-stats-tracker",
		"upstream", cfg.UpstreamURL,
		"poll_interval", cfg.PollInterval().String(),
		"card_format", cfg.CardFormat,
	)

	trk, err := tracker.New(cfg, log)
	if err != nil {
		log.Error("Failed to create tracker", "error", err)
		os.Exit(1)
	}
	trk.Configure(cfg.PollIntervalMinutes)

	srv := server.New(":"+cfg.Port, trk, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("Received shutdown signal", "signal", sig.String())
		cancel()

		time.AfterFunc(30*time.Second, func() {
			log.Error("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		})
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return trk.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("Tracker failed", "error", err)
		os.Exit(1)
	}

	log.Info("👋 Shutdown complete. Goodbye!")
}
