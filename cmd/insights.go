package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// InsightsDashboard prints the aggregated insights dashboard.
func (r *Runner) InsightsDashboard(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.insights.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeRaw(raw)
}

// InsightsHabits prints the study-habit breakdown.
func (r *Runner) InsightsHabits(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.insights.Habits(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeRaw(raw)
}

// InsightsCompare prints the week-over-week comparison for a course.
func (r *Runner) InsightsCompare(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	if courseID <= 0 {
		return fmt.Errorf("%w: course id", shared.ErrMissingArgument)
	}

	raw, err := r.insights.WeeklyCompare(ctx, courseID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeRaw(raw)
}

// InsightsLogSession records a completed study session.
func (r *Runner) InsightsLogSession(ctx context.Context, cmd *cli.Command) error {
	session := services.StudySession{
		CourseID:        int(cmd.Int("course")),
		DurationMinutes: int(cmd.Int("minutes")),
		Topic:           cmd.String("topic"),
		Notes:           cmd.String("notes"),
	}

	if err := r.insights.LogSession(ctx, session); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Logged %d minutes on %s\n", session.DurationMinutes, session.Topic)
}

// InsightsWeakTopic flags a topic the student struggles with.
func (r *Runner) InsightsWeakTopic(ctx context.Context, cmd *cli.Command) error {
	topic := services.WeakTopic{
		CourseID: int(cmd.Int("course")),
		Topic:    cmd.String("topic"),
		Severity: cmd.String("severity"),
	}

	if err := r.insights.AddWeakTopic(ctx, topic); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Weak topic recorded: %s\n", topic.Topic)
}

// InsightsProgress records self-assessed course progress.
func (r *Runner) InsightsProgress(ctx context.Context, cmd *cli.Command) error {
	update := services.ProgressUpdate{
		CourseID: int(cmd.Int("course")),
		Percent:  int(cmd.Int("percent")),
	}

	if err := r.insights.UpdateProgress(ctx, update); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Progress for course %d set to %d%%\n", update.CourseID, update.Percent)
}

// InsightsRecommend regenerates and prints the study recommendations.
func (r *Runner) InsightsRecommend(ctx context.Context, cmd *cli.Command) error {
	raw, err := r.insights.GenerateRecommendations(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeRaw(raw)
}

// writeRaw pretty-prints a raw JSON payload, falling back to the literal bytes.
func (r *Runner) writeRaw(raw json.RawMessage) error {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return r.writePlain("%s\n", string(raw))
	}
	return r.writeJSON(data, true)
}
