package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bansungju/youtube/internal/app"
	"github.com/bansungju/youtube/internal/platform/config"
)

func main() {
	mode := flag.String("mode", "", "Service mode (sync, watch)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, &logger)

	if err := runMode(ctx, application, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("run interrupted")
			return
		}

		logger.Fatal().Err(err).Msg("run failed")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string) error {
	switch mode {
	case "sync":
		return application.RunSync(ctx)
	case "watch":
		return application.RunWatch(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[sync|watch]", os.Args[0])

		return nil
	}
}
