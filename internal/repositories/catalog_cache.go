package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quillfox/lmx/internal/models"
	"github.com/quillfox/lmx/internal/services"
	"github.com/quillfox/lmx/internal/shared"
)

// CatalogCache syncs fresh API listings into the local catalog repositories.
//
// The backend is the source of truth: rows present locally but absent from a
// fresh listing are soft-deleted, matching rows are updated in place, and new
// rows are inserted. Duplicate inserts are silently ignored (UNIQUE
// constraint violations from concurrent syncs).
type CatalogCache struct {
	courses *CourseRepository
	files   *FileRepository
}

// NewCatalogCache creates a new CatalogCache over the given repositories
func NewCatalogCache(courses *CourseRepository, files *FileRepository) *CatalogCache {
	return &CatalogCache{courses: courses, files: files}
}

// SyncCourses reconciles the local course cache against a fresh listing
func (c *CatalogCache) SyncCourses(listing []services.Course) error {
	cached, err := c.courses.List(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to load cached courses: %w", err)
	}

	seen := make(map[int]bool, len(listing))
	byCourseID := make(map[int]*models.Course, len(cached))
	for _, course := range cached {
		byCourseID[course.CourseID()] = course
	}

	for _, item := range listing {
		seen[item.CourseID] = true

		if existing, ok := byCourseID[item.CourseID]; ok {
			if existing.Name() == item.Name {
				continue
			}
			existing.SetName(item.Name)
			if err := c.courses.Update(existing); err != nil {
				return fmt.Errorf("failed to update cached course %d: %w", item.CourseID, err)
			}
			continue
		}

		course := models.NewCourse(item.CourseID, item.Name)
		if err := c.courses.Create(course); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				continue
			}
			return fmt.Errorf("failed to cache course %d: %w", item.CourseID, err)
		}
	}

	for courseID, course := range byCourseID {
		if seen[courseID] {
			continue
		}
		if err := c.courses.Delete(course.ID()); err != nil && !errors.Is(err, shared.ErrCourseNotFound) {
			return fmt.Errorf("failed to drop stale course %d: %w", courseID, err)
		}
	}

	return nil
}

// SyncFiles reconciles the cached files of one course against a fresh listing.
// Download timestamps on surviving rows are preserved.
func (c *CatalogCache) SyncFiles(courseID int, listing []services.CourseFile) error {
	cached, err := c.files.List(map[string]any{"course_id": courseID})
	if err != nil {
		return fmt.Errorf("failed to load cached files: %w", err)
	}

	seen := make(map[int]bool, len(listing))
	byFileID := make(map[int]*models.CourseFile, len(cached))
	for _, file := range cached {
		byFileID[file.FileID()] = file
	}

	for _, item := range listing {
		seen[item.ID] = true

		if existing, ok := byFileID[item.ID]; ok {
			if existing.Name() == item.Name && existing.FileType() == item.FileType {
				continue
			}
			existing.SetName(item.Name)
			existing.SetFileType(item.FileType)
			if err := c.files.Update(existing); err != nil {
				return fmt.Errorf("failed to update cached file %d: %w", item.ID, err)
			}
			continue
		}

		file := models.NewCourseFile(courseID, item.ID, item.Name, item.FileType)
		if err := c.files.Create(file); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				continue
			}
			return fmt.Errorf("failed to cache file %d: %w", item.ID, err)
		}
	}

	for fileID, file := range byFileID {
		if seen[fileID] {
			continue
		}
		if err := c.files.Delete(file.ID()); err != nil && !errors.Is(err, shared.ErrFileNotFound) {
			return fmt.Errorf("failed to drop stale file %d: %w", fileID, err)
		}
	}

	return nil
}

// FilesNamed returns the cached files of a course carrying the given name.
// File names are unique per course in practice but not enforced, so this
// returns a slice.
func (c *CatalogCache) FilesNamed(courseID int, name string) ([]*models.CourseFile, error) {
	files, err := c.files.List(map[string]any{"course_id": courseID})
	if err != nil {
		return nil, err
	}

	var matched []*models.CourseFile
	for _, file := range files {
		if file.Name() == name {
			matched = append(matched, file)
		}
	}
	return matched, nil
}

// RecordDownload stamps a cached file as downloaded now.
// Missing cache rows are ignored so downloads work before the first sync.
func (c *CatalogCache) RecordDownload(courseID, fileID int) error {
	err := c.files.MarkDownloaded(courseID, fileID, time.Now())
	if errors.Is(err, shared.ErrFileNotFound) {
		return nil
	}
	return err
}
