package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillfox/lmx/internal/services"
	th "github.com/quillfox/lmx/internal/testing"
)

func sampleDeck() *services.FlashcardDeck {
	return &services.FlashcardDeck{
		CourseID: 101,
		FileID:   7,
		Flashcards: []services.Flashcard{
			{Question: "What is a matrix?", Answer: "A rectangular array of numbers."},
			{Question: "What is a determinant?", Answer: "A scalar computed from a square matrix."},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("DeckToCSV", func(t *testing.T) {
		data, err := DeckToCSV(sampleDeck())
		if err != nil {
			t.Fatalf("DeckToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Index,Question,Answer") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "What is a matrix?") {
			t.Errorf("CSV missing first question")
		}
		if !strings.Contains(output, "A scalar computed from a square matrix.") {
			t.Errorf("CSV missing second answer")
		}
	})

	t.Run("DeckToMarkdown", func(t *testing.T) {
		t.Run("with title", func(t *testing.T) {
			data, err := DeckToMarkdown(sampleDeck(), "Algebra Deck")
			if err != nil {
				t.Fatalf("DeckToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "# Algebra Deck") {
				t.Errorf("Markdown missing title, got: %s", output)
			}
			if !strings.Contains(output, "**Cards**: 2") {
				t.Errorf("Markdown missing card count")
			}
			if !strings.Contains(output, "<details><summary>Answer</summary>") {
				t.Errorf("Markdown answers not collapsible")
			}
		})

		t.Run("default title uses file id", func(t *testing.T) {
			data, err := DeckToMarkdown(sampleDeck(), "")
			if err != nil {
				t.Fatalf("DeckToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "# Flashcards for file 7") {
				t.Errorf("Markdown missing default title, got: %s", data)
			}
		})
	})

	t.Run("QuestionsToText", func(t *testing.T) {
		output := string(QuestionsToText([]string{"Define rank.", "State Cramer's rule."}))

		if !strings.Contains(output, "Review questions: 2") {
			t.Errorf("text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. Define rank.") {
			t.Errorf("text missing numbered question")
		}
	})

	t.Run("PlanToText", func(t *testing.T) {
		events := []services.CalendarEvent{
			{Title: "Study: Algebra", Start: "2026-09-02T18:00", End: "2026-09-02T19:00"},
			{Title: "Study: Physics"},
		}

		output := string(PlanToText(events))

		if !strings.Contains(output, "Study plan: 2 events") {
			t.Errorf("text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. Study: Algebra [2026-09-02T18:00 - 2026-09-02T19:00]") {
			t.Errorf("text missing timed event, got: %s", output)
		}
		if !strings.Contains(output, "2. Study: Physics\n") {
			t.Errorf("untimed event should omit brackets, got: %s", output)
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteDeckCSV", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "algebra")

		result, err := WriteDeckCSV(sampleDeck(), base)
		if err != nil {
			t.Fatalf("WriteDeckCSV failed: %v", err)
		}

		th.AssertFileExists(t, result.CardsFile)
		th.AssertFileExists(t, result.MetadataFile)

		meta := th.MustReadFile(t, result.MetadataFile)
		if !strings.Contains(meta, "\"cards\": 2") {
			t.Errorf("metadata missing card count, got: %s", meta)
		}
	})

	t.Run("WriteDeckMarkdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "algebra.md")

		written, err := WriteDeckMarkdown(sampleDeck(), path, "Algebra Deck")
		if err != nil {
			t.Fatalf("WriteDeckMarkdown failed: %v", err)
		}

		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("WritePlanText", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.txt")

		written, err := WritePlanText([]services.CalendarEvent{{Title: "Study: Algebra"}}, path)
		if err != nil {
			t.Fatalf("WritePlanText failed: %v", err)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "Study: Algebra") {
			t.Errorf("plan file missing event, got: %s", content)
		}
	})
}
