package services

import (
	"context"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// MeetRequest schedules a recording bot to join a meeting.
type MeetRequest struct {
	MeetURL         string `json:"meet_url"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// MeetSchedule is the backend's confirmation of a scheduled bot.
type MeetSchedule struct {
	ID      int    `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MeetService schedules meeting-recording bots.
type MeetService struct {
	client *api.Client
}

// NewMeetService creates a meet service backed by the shared client.
func NewMeetService(client *api.Client) *MeetService {
	return &MeetService{client: client}
}

// Schedule registers a bot to join and record the meeting described by req.
func (s *MeetService) Schedule(ctx context.Context, req MeetRequest) (*MeetSchedule, error) {
	resp, err := s.client.Call(ctx, "/api/schedule_meet", api.CallOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}

	var schedule MeetSchedule
	if err := resp.Decode(&schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}
