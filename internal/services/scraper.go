package services

import (
	"context"
	"net/http"

	"github.com/quillfox/lmx/internal/api"
)

// ScrapeResult is the terminal outcome the backend attaches once a scrape
// finishes. Success=false with an idle status means the scrape ran and failed
// (commonly an LMS login failure).
type ScrapeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ScrapeStatus is the backend's scrape state, surfaced verbatim: whether the
// scrape succeeded is encoded in Result, not in the call's error.
type ScrapeStatus struct {
	Status string        `json:"status"`
	Result *ScrapeResult `json:"result"`
}

// Running reports whether a scrape is still in progress.
func (s ScrapeStatus) Running() bool { return s.Status == "scraping" }

// Failed reports whether the scrape finished unsuccessfully.
func (s ScrapeStatus) Failed() bool {
	return s.Status == "idle" && s.Result != nil && !s.Result.Success
}

// ScraperService starts LMS scrapes and polls their status.
type ScraperService struct {
	client *api.Client
}

// NewScraperService creates a scraper service backed by the shared client.
func NewScraperService(client *api.Client) *ScraperService {
	return &ScraperService{client: client}
}

// Start kicks off a scrape of the student's LMS account. The backend runs the
// scrape asynchronously; poll [ScraperService.Status] for completion.
func (s *ScraperService) Start(ctx context.Context, username, password string) error {
	_, err := s.client.Call(ctx, "/api/scrape", api.CallOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"username": username, "password": password},
	})
	return err
}

// Status fetches the current scrape state.
func (s *ScraperService) Status(ctx context.Context) (*ScrapeStatus, error) {
	resp, err := s.client.Call(ctx, "/api/scrape/status", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var status ScrapeStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
