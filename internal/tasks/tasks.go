package tasks

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// ScrapeRunResult contains all data from a full scrape-and-wait operation.
type ScrapeRunResult struct {
	Status   *services.ScrapeStatus // Terminal status from the backend
	Attempts int                    // Number of status polls performed
	Elapsed  time.Duration          // Wall time from start to terminal status
}

// PlanRunResult contains all data from a calendar sync and plan generation.
type PlanRunResult struct {
	Sync   *services.SyncResult     // Deadline sync summary
	Plan   *services.SyncResult     // Plan generation summary
	Events []services.CalendarEvent // Generated study plan events
}

// Scraper defines the scrape endpoints the engine drives.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type Scraper interface {
	Start(ctx context.Context, username, password string) error
	Status(ctx context.Context) (*services.ScrapeStatus, error)
}

// Planner defines the calendar endpoints the engine drives.
type Planner interface {
	Sync(ctx context.Context) (*services.SyncResult, error)
	GenerateStudyPlan(ctx context.Context) (*services.SyncResult, error)
	StudyPlanEvents(ctx context.Context) ([]services.CalendarEvent, error)
}

// Engine defines long-running operations against the backend.
type Engine interface {
	// Scrape starts an LMS scrape and polls status until the run leaves the running state.
	Scrape(ctx context.Context, username, password string, progress chan<- ProgressUpdate) (*ScrapeRunResult, error)

	// Plan syncs deadlines to the calendar, generates a study plan, and fetches its events.
	Plan(ctx context.Context, progress chan<- ProgressUpdate) (*PlanRunResult, error)
}

// BackendEngine implements Engine against the productivity backend.
type BackendEngine struct {
	scraper  Scraper
	calendar Planner
	limiter  *rate.Limiter
}

// NewBackendEngine creates an engine polling scrape status at most once per interval.
func NewBackendEngine(scraper Scraper, calendar Planner, pollInterval time.Duration) *BackendEngine {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &BackendEngine{
		scraper:  scraper,
		calendar: calendar,
		limiter:  rate.NewLimiter(rate.Every(pollInterval), 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *BackendEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Scrape starts a scrape and waits for the backend to report a terminal state.
// Whether the scrape itself succeeded is encoded in the returned status, not
// in the error: an error means the run could not be started or observed.
func (e *BackendEngine) Scrape(ctx context.Context, username, password string, progress chan<- ProgressUpdate) (*ScrapeRunResult, error) {
	if e.scraper == nil {
		return nil, fmt.Errorf("%w: scraper service not initialized", shared.ErrServiceUnavailable)
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: LMS username and password required", shared.ErrMissingCredentials)
	}

	started := time.Now()
	e.sendProgress(progress, startScrapeUpdate())

	if err := e.scraper.Start(ctx, username, password); err != nil {
		return nil, fmt.Errorf("%w: failed to start scrape: %v", shared.ErrAPIRequest, err)
	}

	result := &ScrapeRunResult{}
	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		status, err := e.scraper.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to poll scrape status: %v", shared.ErrAPIRequest, err)
		}

		result.Attempts++
		result.Status = status

		if status.Running() {
			e.sendProgress(progress, pollScrapeUpdate(result.Attempts, status.Status))
			continue
		}

		result.Elapsed = time.Since(started)
		e.sendProgress(progress, scrapeDoneUpdate(result.Attempts, status.Status, status))
		return result, nil
	}
}

// Plan syncs deadlines onto the calendar, generates a study plan around them,
// and fetches the plan's events.
func (e *BackendEngine) Plan(ctx context.Context, progress chan<- ProgressUpdate) (*PlanRunResult, error) {
	if e.calendar == nil {
		return nil, fmt.Errorf("%w: calendar service not initialized", shared.ErrServiceUnavailable)
	}

	result := &PlanRunResult{}

	e.sendProgress(progress, syncCalendarUpdate(1, 3))
	sync, err := e.calendar.Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sync calendar: %v", shared.ErrAPIRequest, err)
	}
	result.Sync = sync

	e.sendProgress(progress, generatePlanUpdate(2, 3))
	plan, err := e.calendar.GenerateStudyPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate study plan: %v", shared.ErrAPIRequest, err)
	}
	result.Plan = plan

	events, err := e.calendar.StudyPlanEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch study plan events: %v", shared.ErrAPIRequest, err)
	}
	result.Events = events
	e.sendProgress(progress, fetchPlanEventsUpdate(3, 3, len(events)))

	return result, nil
}
