package models

import (
	"fmt"
	"strings"
	"time"
)

// Course is a locally cached course scraped from the LMS.
//
// CourseID is the backend's numeric identifier and is what API paths are built
// from; ID is the local cache row identifier.
type Course struct {
	base
	courseID int
	name     string
}

// NewCourse creates a cached course for the given backend course id and name.
func NewCourse(courseID int, name string) *Course {
	return &Course{base: newBase(), courseID: courseID, name: name}
}

func (c *Course) CourseID() int       { return c.courseID }
func (c *Course) Name() string        { return c.name }
func (c *Course) SetName(name string) { c.name = name }

// Validate checks if the course's data is valid.
func (c *Course) Validate() error {
	if c.courseID <= 0 {
		return fmt.Errorf("course id must be positive, got %d", c.courseID)
	}
	if strings.TrimSpace(c.name) == "" {
		return fmt.Errorf("course name must not be empty")
	}
	return nil
}

// CourseFile is a locally cached file belonging to a course, with an optional
// record of when it was last downloaded.
type CourseFile struct {
	base
	courseID     int
	fileID       int
	name         string
	fileType     string
	downloadedAt *time.Time
}

// NewCourseFile creates a cached course file entry.
func NewCourseFile(courseID, fileID int, name, fileType string) *CourseFile {
	return &CourseFile{base: newBase(), courseID: courseID, fileID: fileID, name: name, fileType: fileType}
}

func (f *CourseFile) CourseID() int                { return f.courseID }
func (f *CourseFile) FileID() int                  { return f.fileID }
func (f *CourseFile) Name() string                 { return f.name }
func (f *CourseFile) SetName(name string)          { f.name = name }
func (f *CourseFile) FileType() string             { return f.fileType }
func (f *CourseFile) SetFileType(ft string)        { f.fileType = ft }
func (f *CourseFile) DownloadedAt() *time.Time     { return f.downloadedAt }
func (f *CourseFile) SetDownloadedAt(t *time.Time) { f.downloadedAt = t }

// Validate checks if the course file's data is valid.
func (f *CourseFile) Validate() error {
	if f.courseID <= 0 {
		return fmt.Errorf("course id must be positive, got %d", f.courseID)
	}
	if f.fileID <= 0 {
		return fmt.Errorf("file id must be positive, got %d", f.fileID)
	}
	if strings.TrimSpace(f.name) == "" {
		return fmt.Errorf("file name must not be empty")
	}
	return nil
}
