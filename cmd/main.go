package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/movienite/nite/internal/services"
	"github.com/movienite/nite/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	api := services.NewMovieService(config.Server.BaseURL, nil)
	if config.Session.Token != "" {
		api.SetSessionToken(config.Session.Token)
	}
	events := services.NewEventService(config.Server.BaseURL, nil, logger)
	if config.Events.ReconnectSeconds > 0 {
		events.SetReconnectDelay(time.Duration(config.Events.ReconnectSeconds) * time.Second)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    api,
		Events: events,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "nite",
		Usage:    "Browse and manage a shared MovieNite watchlist from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
