package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/formatter"
	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// CalendarEvents lists the synced calendar events.
func (r *Runner) CalendarEvents(ctx context.Context, cmd *cli.Command) error {
	events, err := r.calendar.Events(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(events, true)
	}

	r.writePlainHeader(fmt.Sprintf("Calendar events (%d)", len(events)))
	for _, event := range events {
		r.writePlain("• %s  %s", event.Start, event.Title)
		if event.Kind != "" {
			r.writePlain(" [%s]", event.Kind)
		}
		r.writePlain("\n")
	}
	return nil
}

// CalendarSync pushes scraped deadlines onto the configured calendar.
func (r *Runner) CalendarSync(ctx context.Context, cmd *cli.Command) error {
	result, err := r.calendar.Sync(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ %d deadlines synced: %s\n", result.Synced, result.Message)
}

// CalendarPlan runs the full plan pipeline: deadline sync, plan generation,
// and event fetch, then prints or saves the agenda.
func (r *Runner) CalendarPlan(ctx context.Context, cmd *cli.Command) error {
	result, err := r.engine.Plan(ctx, nil)
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		written, err := formatter.WritePlanText(result.Events, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Study plan written to %s\n", written)
	}

	if result.Sync != nil {
		r.writePlain("✓ %d deadlines synced\n", result.Sync.Synced)
	}
	r.writePlain("%s", formatter.PlanToText(result.Events))
	return nil
}

// CalendarSettings shows the backend-held settings, or updates them when
// --calendar-id is given.
func (r *Runner) CalendarSettings(ctx context.Context, cmd *cli.Command) error {
	if id := cmd.String("calendar-id"); id != "" {
		if err := r.calendar.UpdateSettings(ctx, services.UserSettings{GoogleCalendarID: id}); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		return r.writePlain("✓ Calendar id set to %s\n", id)
	}

	settings, err := r.calendar.Settings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if settings.GoogleCalendarID == "" {
		return r.writePlain("No calendar configured, set one with --calendar-id\n")
	}
	return r.writePlain("Calendar id: %s\n", settings.GoogleCalendarID)
}

// CalendarMeet schedules a recording bot for a meeting.
func (r *Runner) CalendarMeet(ctx context.Context, cmd *cli.Command) error {
	req := services.MeetRequest{
		MeetURL:         cmd.String("url"),
		StartTime:       cmd.String("start"),
		DurationMinutes: int(cmd.Int("duration")),
	}

	schedule, err := r.meet.Schedule(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Bot scheduled (#%d, %s): %s\n", schedule.ID, schedule.Status, schedule.Message)
}
