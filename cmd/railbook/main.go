package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"railbook/internal/config"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	// Ctrl-C cancels the running command; prompts turn it into an abort.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := &env{cfg: cfg, logger: logger, out: os.Stdout}

	app := &cli.App{
		Name:  "railbook",
		Usage: "Search and list train trips from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api-url",
				Value:       cfg.APIURL,
				Usage:       "base URL of the booking API",
				Destination: &cfg.APIURL,
			},
			&cli.StringFlag{
				Name:        "db",
				Value:       cfg.DBPath,
				Usage:       "path of the session database",
				Destination: &cfg.DBPath,
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "print booking API counters when the command ends",
			},
		},
		Before: e.setup,
		After:  e.teardown,
		Commands: []*cli.Command{
			e.loginCommand(),
			e.logoutCommand(),
			e.searchCommand(),
			e.tripsCommand(),
			e.basketCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
