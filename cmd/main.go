package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/session"
	"github.com/quillfox/lmx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if path, ok := findConfig(); ok {
		if loadedConfig, err := shared.LoadConfig(path); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		}
	}

	dataDir, err := shared.HomeDir()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}

	client := api.NewClient(config.API.BaseURL, nil)
	client.SetLogger(logger)

	store := session.NewStore(dataDir, logger)
	store.Bind(client)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Client:  client,
		Session: store,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "lmx",
		Usage:    "Study assistant for your LMS: courses, deadlines, AI tools, and scheduling",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not logged in, run 'lmx auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// findConfig looks for config.toml in the working directory, then ~/.lmx.
func findConfig() (string, bool) {
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml", true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, ".lmx", "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}
