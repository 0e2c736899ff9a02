package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/shared"
)

// HomeworkGrade uploads a homework document for AI grading and prints the report.
func (r *Runner) HomeworkGrade(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	courseDBID := int(cmd.Int("course"))
	if path == "" {
		return fmt.Errorf("%w: document path", shared.ErrMissingArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	report, err := r.homework.Grade(ctx, courseDBID, fileBase(path), file)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlainHeader("Grade report")
	r.writePlain("Grade: %s (%d)\n", report.Grade, report.Score)
	if report.Feedback != "" {
		r.writePlainln("%s", report.Feedback)
	}
	return nil
}

// HomeworkSubmit pushes a homework file to the LMS assignment.
func (r *Runner) HomeworkSubmit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: document path", shared.ErrMissingArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r.logger.Info("submitting homework", "path", path, "url", cmd.String("url"))

	result, err := r.homework.Submit(ctx, cmd.String("url"), cmd.String("username"), cmd.String("password"), fileBase(path), file)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !result.Success {
		return fmt.Errorf("submission failed: %s", result.Message)
	}
	return r.writePlain("✓ %s\n", result.Message)
}

// HomeworkFetch downloads a scraped homework file.
func (r *Runner) HomeworkFetch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: file name", shared.ErrMissingArgument)
	}

	ref, err := r.homework.GetFile(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer ref.Release()

	dest := cmd.String("output")
	if dest == "" {
		dest = filepath.Base(name)
	}

	src, err := ref.Open()
	if err != nil {
		return fmt.Errorf("failed to open downloaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	written, err := io.Copy(out, src)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return r.writePlain("✓ Saved %s (%d bytes)\n", dest, written)
}
