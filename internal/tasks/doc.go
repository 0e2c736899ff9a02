// Package tasks orchestrates long-running backend operations with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Scrape] : Full LMS scrape with status polling
//     - Starts a scrape run on the backend with LMS credentials
//     - Polls the status endpoint at a rate-limited interval
//     - Returns the terminal status once the run leaves the running state
//
//  2. [Engine.Plan] : Calendar sync and study-plan generation
//     - Pushes scraped deadlines onto the configured calendar
//     - Asks the backend to generate a study plan around them
//     - Fetches the generated plan events for display
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages for
// UI rendering. Updates use select with default to prevent blocking.
//
// # Implementation
//
// [BackendEngine] implements [Engine] with dependencies on:
//   - [services.ScraperService] : scrape start and status endpoints
//   - [services.CalendarService] : calendar sync and study-plan endpoints
package tasks
