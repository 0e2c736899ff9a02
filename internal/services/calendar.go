package services

import (
	"context"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// CalendarEvent is a synced deadline or study block on the student's calendar.
type CalendarEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	CourseID int    `json:"course_id"`
	Kind     string `json:"kind"`
}

// SyncResult summarizes a calendar sync run.
type SyncResult struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}

// UserSettings is the mutable per-user configuration held by the backend.
type UserSettings struct {
	GoogleCalendarID string `json:"google_calendar_id"`
}

// CalendarService reads calendar events, triggers deadline syncs, and manages
// generated study plans.
type CalendarService struct {
	client *api.Client
}

// NewCalendarService creates a calendar service backed by the shared client.
func NewCalendarService(client *api.Client) *CalendarService {
	return &CalendarService{client: client}
}

// Events retrieves the synced calendar events.
func (s *CalendarService) Events(ctx context.Context) ([]CalendarEvent, error) {
	resp, err := s.client.Call(ctx, "/api/calendar/events", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var events []CalendarEvent
	if err := resp.Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// Sync pushes scraped deadlines onto the configured calendar.
func (s *CalendarService) Sync(ctx context.Context) (*SyncResult, error) {
	resp, err := s.client.Call(ctx, "/api/sync_calendar", api.CallOptions{Method: http.MethodPost})
	if err != nil {
		return nil, err
	}

	var result SyncResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateStudyPlan asks the backend to build a study plan around the
// student's deadlines. The planning itself is entirely server-side.
func (s *CalendarService) GenerateStudyPlan(ctx context.Context) (*SyncResult, error) {
	resp, err := s.client.Call(ctx, "/api/generate_study_plan", api.CallOptions{Method: http.MethodPost})
	if err != nil {
		return nil, err
	}

	var result SyncResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StudyPlanEvents retrieves the events of the generated study plan.
func (s *CalendarService) StudyPlanEvents(ctx context.Context) ([]CalendarEvent, error) {
	resp, err := s.client.Call(ctx, "/api/study_plan/events", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var events []CalendarEvent
	if err := resp.Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// Settings retrieves the user's backend-held settings.
func (s *CalendarService) Settings(ctx context.Context) (*UserSettings, error) {
	resp, err := s.client.Call(ctx, "/api/user/settings", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var settings UserSettings
	if err := resp.Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings stores the user's settings on the backend.
func (s *CalendarService) UpdateSettings(ctx context.Context, settings UserSettings) error {
	_, err := s.client.Call(ctx, "/api/user/settings", api.CallOptions{
		Method: http.MethodPut,
		Body:   settings,
	})
	return err
}
