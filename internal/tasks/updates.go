package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	StartScrape Phase = iota
	PollScrape
	ScrapeDone
	SyncCalendar
	GeneratePlan
	FetchPlanEvents
)

func (p Phase) String() string {
	switch p {
	case StartScrape:
		return "start_scrape"
	case PollScrape:
		return "poll_scrape"
	case ScrapeDone:
		return "scrape_done"
	case SyncCalendar:
		return "sync_calendar"
	case GeneratePlan:
		return "generate_plan"
	case FetchPlanEvents:
		return "fetch_plan_events"
	default:
		return ""
	}
}

func startScrapeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   StartScrape,
		Step:    1,
		Total:   1,
		Message: "Starting LMS scrape...",
	}
}

func pollScrapeUpdate(attempt int, status string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollScrape,
		Step:    attempt,
		Total:   0,
		Message: fmt.Sprintf("[poll %d] scrape %s...", attempt, status),
	}
}

func scrapeDoneUpdate(attempt int, status string, data any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScrapeDone,
		Step:    attempt,
		Total:   attempt,
		Message: fmt.Sprintf("Scrape finished: %s", status),
		Data:    data,
	}
}

func syncCalendarUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncCalendar,
		Step:    step,
		Total:   total,
		Message: "Syncing deadlines to calendar...",
	}
}

func generatePlanUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GeneratePlan,
		Step:    step,
		Total:   total,
		Message: "Generating study plan...",
	}
}

func fetchPlanEventsUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlanEvents,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Study plan ready (%d events)", count),
	}
}
