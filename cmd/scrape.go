package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/shared"
	"github.com/quillfox/lmx/internal/tasks"
)

// ScrapeRun starts an LMS scrape and, unless --no-wait is set, polls until it finishes.
func (r *Runner) ScrapeRun(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if cmd.Bool("no-wait") {
		if err := r.scraper.Start(ctx, username, password); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		return r.writePlain("✓ Scrape started, check progress with 'lmx scrape status'\n")
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Scrape(ctx, username, password, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	status := result.Status
	switch {
	case status.Failed():
		msg := "scrape failed"
		if status.Result != nil {
			msg = status.Result.Message
		}
		return fmt.Errorf("✗ %s", msg)
	case status.Result != nil:
		r.writePlain("✓ %s\n", status.Result.Message)
	default:
		r.writePlain("Scrape finished: %s\n", status.Status)
	}
	r.writePlain("(%d polls in %s)\n", result.Attempts, result.Elapsed.Round(100*time.Millisecond))
	return nil
}

// ScrapeStatus prints the backend's current scrape state.
func (r *Runner) ScrapeStatus(ctx context.Context, cmd *cli.Command) error {
	status, err := r.scraper.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if status.Running() {
		return r.writePlain("Scrape in progress...\n")
	}
	if status.Result == nil {
		return r.writePlain("Idle, no scrape has run yet\n")
	}
	if status.Result.Success {
		return r.writePlain("✓ Last scrape: %s\n", status.Result.Message)
	}
	return r.writePlain("✗ Last scrape: %s\n", status.Result.Message)
}
