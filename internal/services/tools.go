package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/quillfox/lmx/internal/api"
)

// Flashcard is a single question/answer pair from a generated deck.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FlashcardDeck is the result of generating flashcards from a course file.
type FlashcardDeck struct {
	CourseID   int         `json:"course_id"`
	FileID     int         `json:"file_id"`
	Flashcards []Flashcard `json:"flashcards"`
}

// ToolService invokes the AI study tools: summaries, review questions, hints,
// and flashcard generation. Uploads go out as multipart forms carrying the
// file and the course database id.
type ToolService struct {
	client *api.Client
}

// NewToolService creates a tool service backed by the shared client.
func NewToolService(client *api.Client) *ToolService {
	return &ToolService{client: client}
}

// Summarize uploads a document and returns the backend's summary payload.
// The summary shape varies by document type, so it is returned undecoded.
func (s *ToolService) Summarize(ctx context.Context, courseDBID int, fileName string, file io.Reader) (json.RawMessage, error) {
	return s.upload(ctx, "/api/summarize_upload", courseDBID, fileName, file, nil)
}

// GenerateQuestions uploads a document and returns generated review questions.
func (s *ToolService) GenerateQuestions(ctx context.Context, courseDBID int, fileName string, file io.Reader) ([]string, error) {
	raw, err := s.upload(ctx, "/api/generate_questions", courseDBID, fileName, file, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		ReviewQuestions []string `json:"review_questions"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return result.ReviewQuestions, nil
}

// GetHint uploads a document plus a question and returns a hint toward the
// answer without giving it away.
func (s *ToolService) GetHint(ctx context.Context, courseDBID int, fileName string, file io.Reader, question string) (string, error) {
	raw, err := s.upload(ctx, "/api/get_hint", courseDBID, fileName, file, map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	var result struct {
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode hint: %w", err)
	}
	if result.Hint == "" {
		result.Hint = "No hint available"
	}
	return result.Hint, nil
}

// GenerateFlashcards asks the backend to build a flashcard deck from an
// already-scraped course file.
func (s *ToolService) GenerateFlashcards(ctx context.Context, courseID, fileID int) (*FlashcardDeck, error) {
	endpoint := fmt.Sprintf("/api/courses/%d/files/%d/flashcards", courseID, fileID)
	resp, err := s.client.Call(ctx, endpoint, api.CallOptions{Method: http.MethodPost})
	if err != nil {
		return nil, err
	}

	deck := &FlashcardDeck{CourseID: courseID, FileID: fileID}
	if err := resp.Decode(deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (s *ToolService) upload(ctx context.Context, endpoint string, courseDBID int, fileName string, file io.Reader, extra map[string]string) (json.RawMessage, error) {
	fields := map[string]string{"course_db_id": strconv.Itoa(courseDBID)}
	for k, v := range extra {
		fields[k] = v
	}

	body, contentType, err := buildForm(fields, "file", fileName, file)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Call(ctx, endpoint, api.CallOptions{
		Method:      http.MethodPost,
		Body:        body,
		BinaryForm:  true,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
