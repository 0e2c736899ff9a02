package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// GradeReport is the backend's evaluation of a submitted homework document.
type GradeReport struct {
	Grade    string `json:"grade"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// SubmitResult is the outcome of pushing a homework file to the LMS.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HomeworkService grades homework documents, submits them to the LMS, and
// fetches previously scraped homework files.
type HomeworkService struct {
	client *api.Client
}

// NewHomeworkService creates a homework service backed by the shared client.
func NewHomeworkService(client *api.Client) *HomeworkService {
	return &HomeworkService{client: client}
}

// Grade uploads a homework document for AI grading.
func (s *HomeworkService) Grade(ctx context.Context, courseDBID int, fileName string, file io.Reader) (*GradeReport, error) {
	tools := ToolService{client: s.client}
	raw, err := tools.upload(ctx, "/api/homework/grade", courseDBID, fileName, file, nil)
	if err != nil {
		return nil, err
	}

	var report GradeReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Submit uploads a homework file for submission to the LMS assignment at
// assignmentURL, using the student's LMS credentials for the headless login.
func (s *HomeworkService) Submit(ctx context.Context, assignmentURL, username, password, fileName string, file io.Reader) (*SubmitResult, error) {
	fields := map[string]string{
		"assignment_url": assignmentURL,
		"username":       username,
		"password":       password,
	}

	body, contentType, err := buildForm(fields, "file", fileName, file)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Call(ctx, "/api/homework/submit", api.CallOptions{
		Method:      http.MethodPost,
		Body:        body,
		BinaryForm:  true,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var result SubmitResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFile fetches a scraped homework file as a transient file reference.
// The caller owns the reference and must release it.
func (s *HomeworkService) GetFile(ctx context.Context, name string) (*api.FileRef, error) {
	return s.client.FetchFile(ctx, "/api/homework/get_file/"+name)
}
