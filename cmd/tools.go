package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/formatter"
	"github.com/quillfox/lmx/internal/shared"
)

// ToolsSummarize uploads a document and prints the backend's summary.
func (r *Runner) ToolsSummarize(ctx context.Context, cmd *cli.Command) error {
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

	r.logger.Info("uploading document for summary", "path", path, "course", courseDBID)

	summary, err := r.tools.Summarize(ctx, courseDBID, fileBase(path), file)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var data any
	if err := json.Unmarshal(summary, &data); err != nil {
		return r.writePlain("%s\n", string(summary))
	}
	return r.writeJSON(data, cmd.Bool("pretty"))
}

// ToolsQuestions uploads a document and prints generated review questions.
func (r *Runner) ToolsQuestions(ctx context.Context, cmd *cli.Command) error {
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

	questions, err := r.tools.GenerateQuestions(ctx, courseDBID, fileBase(path), file)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if output := cmd.String("output"); output != "" {
		if err := os.WriteFile(output, formatter.QuestionsToText(questions), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return r.writePlain("✓ %d questions written to %s\n", len(questions), output)
	}

	r.writePlainHeader(fmt.Sprintf("Review questions (%d)", len(questions)))
	for i, q := range questions {
		r.writePlain("%d. %s\n", i+1, q)
	}
	return nil
}

// ToolsHint uploads a document plus a question and prints the hint.
func (r *Runner) ToolsHint(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	courseDBID := int(cmd.Int("course"))
	question := cmd.String("question")
	if path == "" {
		return fmt.Errorf("%w: document path", shared.ErrMissingArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	hint, err := r.tools.GetHint(ctx, courseDBID, fileBase(path), file, question)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("Hint: %s\n", hint)
}

// ToolsFlashcards generates a deck from a scraped file and optionally exports it.
func (r *Runner) ToolsFlashcards(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	fileID := int(cmd.IntArg("file"))
	if courseID <= 0 || fileID <= 0 {
		return fmt.Errorf("%w: course id and file id", shared.ErrMissingArgument)
	}

	r.logger.Info("generating flashcards", "course", courseID, "file", fileID)

	deck, err := r.tools.GenerateFlashcards(ctx, courseID, fileID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	switch strings.ToLower(cmd.String("export")) {
	case "":
		// Print to the terminal below.
	case "csv":
		result, err := formatter.WriteDeckCSV(deck, cmd.String("output"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Deck exported to %s (metadata: %s)\n", result.CardsFile, result.MetadataFile)
	case "md", "markdown":
		written, err := formatter.WriteDeckMarkdown(deck, cmd.String("output"), cmd.String("title"))
		if err != nil {
			return err
		}
		return r.writePlain("✓ Deck exported to %s\n", written)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, cmd.String("export"))
	}

	r.writePlainHeader(fmt.Sprintf("Flashcards (%d)", len(deck.Flashcards)))
	for i, card := range deck.Flashcards {
		r.writePlain("%d. %s\n   → %s\n", i+1, card.Question, card.Answer)
	}
	return nil
}

func fileBase(path string) string {
	return filepath.Base(path)
}
