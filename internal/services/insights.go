package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// StudySession logs one completed study block for the habit tracker.
type StudySession struct {
	CourseID        int    `json:"course_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Topic           string `json:"topic"`
	Notes           string `json:"notes,omitempty"`
}

// WeakTopic flags a topic the student struggles with.
type WeakTopic struct {
	CourseID int    `json:"course_id"`
	Topic    string `json:"topic"`
	Severity string `json:"severity,omitempty"`
}

// ProgressUpdate reports self-assessed progress on a course.
type ProgressUpdate struct {
	CourseID int `json:"course_id"`
	Percent  int `json:"percent"`
}

// InsightService reads and feeds the study-habit analytics. Dashboard and
// comparison payloads are computed server-side and shaped per deployment, so
// they are surfaced undecoded.
type InsightService struct {
	client *api.Client
}

// NewInsightService creates an insight service backed by the shared client.
func NewInsightService(client *api.Client) *InsightService {
	return &InsightService{client: client}
}

// Dashboard retrieves the aggregated insights dashboard.
func (s *InsightService) Dashboard(ctx context.Context) (json.RawMessage, error) {
	return s.getRaw(ctx, "/api/insights/dashboard")
}

// Habits retrieves the study-habit breakdown.
func (s *InsightService) Habits(ctx context.Context) (json.RawMessage, error) {
	return s.getRaw(ctx, "/api/insights/habits")
}

// WeeklyCompare retrieves the week-over-week comparison for a course.
func (s *InsightService) WeeklyCompare(ctx context.Context, courseID int) (json.RawMessage, error) {
	return s.getRaw(ctx, fmt.Sprintf("/api/insights/weekly/compare/%d", courseID))
}

// LogSession records a completed study session.
func (s *InsightService) LogSession(ctx context.Context, session StudySession) error {
	_, err := s.client.Call(ctx, "/api/insights/session/log", api.CallOptions{
		Method: http.MethodPost,
		Body:   session,
	})
	return err
}

// AddWeakTopic records a weak topic for later recommendations.
func (s *InsightService) AddWeakTopic(ctx context.Context, topic WeakTopic) error {
	_, err := s.client.Call(ctx, "/api/insights/weak-topics/add", api.CallOptions{
		Method: http.MethodPost,
		Body:   topic,
	})
	return err
}

// UpdateProgress records self-assessed course progress.
func (s *InsightService) UpdateProgress(ctx context.Context, update ProgressUpdate) error {
	_, err := s.client.Call(ctx, "/api/insights/progress/update", api.CallOptions{
		Method: http.MethodPost,
		Body:   update,
	})
	return err
}

// GenerateRecommendations asks the backend to refresh its study
// recommendations and returns them.
func (s *InsightService) GenerateRecommendations(ctx context.Context) (json.RawMessage, error) {
	resp, err := s.client.Call(ctx, "/api/insights/recommendations/generate", api.CallOptions{Method: http.MethodPost})
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *InsightService) getRaw(ctx context.Context, endpoint string) (json.RawMessage, error) {
	resp, err := s.client.Call(ctx, endpoint, api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
