package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// CoursesList lists courses from the backend or the local cache.
func (r *Runner) CoursesList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	var courses []services.Course

	if cmd.Bool("cached") {
		db, _, courseRepo, _, err := r.openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		cached, err := courseRepo.List(map[string]any{})
		if err != nil {
			return err
		}
		for _, c := range cached {
			courses = append(courses, services.Course{CourseID: c.CourseID(), Name: c.Name()})
		}
	} else {
		var err error
		courses, err = r.courses.List(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if cmd.Bool("sync") {
			db, cache, _, _, err := r.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := cache.SyncCourses(courses); err != nil {
				r.logger.Warn("failed to sync catalog cache", "error", err)
			} else {
				r.logger.Info("catalog cache synced", "courses", len(courses))
			}
		}
	}

	if useJSON {
		return r.writeJSON(courses, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Courses (%d)", len(courses)))
	for _, course := range courses {
		r.writePlain("%6d  %s\n", course.CourseID, course.Name)
	}
	return nil
}

// CourseFiles lists the files of one course.
func (r *Runner) CourseFiles(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	if courseID <= 0 {
		return fmt.Errorf("%w: course id", shared.ErrMissingArgument)
	}

	var files []services.CourseFile

	if cmd.Bool("cached") {
		db, _, _, fileRepo, err := r.openCatalog()
		if err != nil {
			return err
		}
		defer db.Close()

		cached, err := fileRepo.List(map[string]any{"course_id": courseID})
		if err != nil {
			return err
		}
		for _, f := range cached {
			files = append(files, services.CourseFile{ID: f.FileID(), Name: f.Name(), FileType: f.FileType()})
		}
	} else {
		var err error
		files, err = r.courses.Files(ctx, courseID)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if cmd.Bool("sync") {
			db, cache, _, _, err := r.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := cache.SyncFiles(courseID, files); err != nil {
				r.logger.Warn("failed to sync file cache", "error", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(files, true)
	}

	r.writePlainHeader(fmt.Sprintf("Files for course %d (%d)", courseID, len(files)))
	for _, file := range files {
		r.writePlain("%6d  %-10s %s\n", file.ID, file.FileType, file.Name)
	}
	return nil
}

// CourseContent lists the scraped content items of one course.
func (r *Runner) CourseContent(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	if courseID <= 0 {
		return fmt.Errorf("%w: course id", shared.ErrMissingArgument)
	}

	items, err := r.courses.Content(ctx, courseID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	r.writePlainHeader(fmt.Sprintf("Content for course %d (%d)", courseID, len(items)))
	for _, item := range items {
		r.writePlain("• %s\n", item.Title)
		if item.Body != "" {
			r.writePlain("  %s\n", item.Body)
		}
	}
	return nil
}

// CourseDeadlines lists the deadlines of one course.
func (r *Runner) CourseDeadlines(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	if courseID <= 0 {
		return fmt.Errorf("%w: course id", shared.ErrMissingArgument)
	}

	deadlines, err := r.courses.Deadlines(ctx, courseID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(deadlines, true)
	}

	r.writePlainHeader(fmt.Sprintf("Deadlines for course %d (%d)", courseID, len(deadlines)))
	for _, d := range deadlines {
		marker := " "
		switch {
		case d.IsCompleted:
			marker = "✓"
		case d.Overdue():
			marker = "!"
		}
		r.writePlain("%s %s — due %s\n", marker, d.Title, d.DueDate)
	}
	return nil
}

// CourseAssignments lists all submittable assignments.
func (r *Runner) CourseAssignments(ctx context.Context, cmd *cli.Command) error {
	assignments, err := r.courses.Assignments(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlainHeader(fmt.Sprintf("Assignments (%d)", len(assignments)))
	for _, a := range assignments {
		r.writePlain("%6d  %s\n        %s\n", a.ID, a.Name, a.URL)
	}
	return nil
}

// CourseDownload fetches one course file and writes it locally.
func (r *Runner) CourseDownload(ctx context.Context, cmd *cli.Command) error {
	courseID := int(cmd.IntArg("course"))
	name := cmd.StringArg("name")
	if courseID <= 0 || name == "" {
		return fmt.Errorf("%w: course id and file name", shared.ErrMissingArgument)
	}

	ref, err := r.courses.DownloadFile(ctx, courseID, name)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer ref.Release()

	dest := cmd.String("output")
	if dest == "" {
		dest = filepath.Base(name)
	}

	src, err := ref.Open()
	if err != nil {
		return fmt.Errorf("failed to open downloaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	written, err := io.Copy(out, src)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	r.logger.Info("file downloaded", "path", dest, "bytes", written)

	db, cache, _, _, err := r.openCatalog()
	if err == nil {
		defer db.Close()
		// Best effort: the backend file name maps back to a cached row only
		// after a files --sync, so stamp failures are not surfaced.
		if files, listErr := cache.FilesNamed(courseID, name); listErr == nil && len(files) == 1 {
			if stampErr := cache.RecordDownload(courseID, files[0].FileID()); stampErr != nil {
				r.logger.Warn("failed to record download", "error", stampErr)
			}
		}
	}

	r.writePlain("✓ Saved %s (%d bytes)\n", dest, written)

	if cmd.Bool("open") {
		if err := shared.OpenPath(dest); err != nil {
			r.logger.Warn("failed to open file", "error", err)
		}
	}
	return nil
}
