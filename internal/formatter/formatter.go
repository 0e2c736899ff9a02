// package formatter provides functions to export generated study material to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// DeckToCSV converts a FlashcardDeck to CSV format with columns: Index, Question, Answer.
//
// The column layout matches what Anki and Quizlet accept for bulk import.
func DeckToCSV(deck *services.FlashcardDeck) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Question", "Answer"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, card := range deck.Flashcards {
		record := []string{
			strconv.Itoa(i + 1),
			card.Question,
			card.Answer,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// DeckToMarkdown converts a FlashcardDeck to Markdown with answers in
// collapsible sections for self-testing.
func DeckToMarkdown(deck *services.FlashcardDeck, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = fmt.Sprintf("Flashcards for file %d", deck.FileID)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(deck.Flashcards)))

	for i, card := range deck.Flashcards {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, card.Question))
		buf.WriteString("<details><summary>Answer</summary>\n\n")
		buf.WriteString(card.Answer)
		buf.WriteString("\n\n</details>\n\n")
	}

	return buf.Bytes(), nil
}

// QuestionsToText converts generated review questions to a numbered plain text list
func QuestionsToText(questions []string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Review questions: %d\n\n", len(questions)))
	for i, q := range questions {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
	}

	return buf.Bytes()
}

// PlanToText converts study plan events to a plain text agenda
func PlanToText(events []services.CalendarEvent) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Study plan: %d events\n\n", len(events)))
	for i, event := range events {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, event.Title))
		if event.Start != "" {
			buf.WriteString(fmt.Sprintf(" [%s", event.Start))
			if event.End != "" {
				buf.WriteString(fmt.Sprintf(" - %s", event.End))
			}
			buf.WriteString("]")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// DeckMetadataJSON generates a JSON representation of deck metadata (without cards)
func DeckMetadataJSON(deck *services.FlashcardDeck) ([]byte, error) {
	meta := map[string]any{
		"course_id": deck.CourseID,
		"file_id":   deck.FileID,
		"cards":     len(deck.Flashcards),
	}
	return shared.MarshalJSON(meta, true)
}

// DeckExportResult contains the paths of files created by WriteDeckCSV
type DeckExportResult struct {
	CardsFile    string
	MetadataFile string
}

// WriteDeckCSV exports a flashcard deck to CSV with an accompanying metadata JSON file.
//
// Defaults to deck_{courseID}_{fileID} as the base filename & creates {base}_cards.csv and {base}_metadata.json
func WriteDeckCSV(deck *services.FlashcardDeck, baseFilepath string) (*DeckExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = fmt.Sprintf("deck_%d_%d", deck.CourseID, deck.FileID)
	}

	csvData, err := DeckToCSV(deck)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	cardsFile := baseFilepath + "_cards.csv"
	if err := os.WriteFile(cardsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := DeckMetadataJSON(deck)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &DeckExportResult{
		CardsFile:    cardsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteDeckMarkdown exports a flashcard deck to a Markdown file.
//
// Defaults to deck_{courseID}_{fileID}.md as the filename.
func WriteDeckMarkdown(deck *services.FlashcardDeck, filepath, title string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("deck_%d_%d.md", deck.CourseID, deck.FileID)
	}

	mdData, err := DeckToMarkdown(deck, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WritePlanText exports study plan events to a plain text file.
//
// Defaults to study_plan.txt as the filename.
func WritePlanText(events []services.CalendarEvent, filepath string) (string, error) {
	if filepath == "" {
		filepath = "study_plan.txt"
	}

	if err := os.WriteFile(filepath, PlanToText(events), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
