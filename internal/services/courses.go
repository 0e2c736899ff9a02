package services

import (
	"context"
	"fmt"

	"github.com/quillfox/lmx/internal/api"
)

// Course is a course record scraped from the LMS.
//
// ID is the backend database id used by the AI tool endpoints; CourseID is
// the LMS-side identifier used by the per-course content endpoints.
type Course struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	Name     string `json:"name"`
}

// CourseFile is a scraped file belonging to a course.
type CourseFile struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FileType string `json:"file_type"`
}

// ContentItem is a scraped page or module entry belonging to a course.
type ContentItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Deadline is an upcoming or past-due task for a course.
type Deadline struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	IsCompleted bool   `json:"is_completed"`
}

// Overdue reports whether the deadline is overdue and still open.
func (d Deadline) Overdue() bool { return d.Status == "Overdue" && !d.IsCompleted }

// Upcoming reports whether the deadline is still open and not overdue.
func (d Deadline) Upcoming() bool { return d.Status != "Overdue" && !d.IsCompleted }

// Assignment is a submittable assignment scraped from the LMS.
type Assignment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CourseService retrieves courses, their files, content, and deadlines.
type CourseService struct {
	client *api.Client
}

// NewCourseService creates a course service backed by the shared client.
func NewCourseService(client *api.Client) *CourseService {
	return &CourseService{client: client}
}

// List retrieves all scraped courses.
func (s *CourseService) List(ctx context.Context) ([]Course, error) {
	resp, err := s.client.Call(ctx, "/api/courses", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var courses []Course
	if err := resp.Decode(&courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Files retrieves the scraped files for a course by its LMS course id.
func (s *CourseService) Files(ctx context.Context, courseID int) ([]CourseFile, error) {
	resp, err := s.client.Call(ctx, fmt.Sprintf("/api/course/%d/files", courseID), api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var files []CourseFile
	if err := resp.Decode(&files); err != nil {
		return nil, err
	}
	return files, nil
}

// Content retrieves the scraped content items for a course.
func (s *CourseService) Content(ctx context.Context, courseID int) ([]ContentItem, error) {
	resp, err := s.client.Call(ctx, fmt.Sprintf("/api/course/%d/content", courseID), api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var items []ContentItem
	if err := resp.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// Deadlines retrieves the deadlines for a course.
func (s *CourseService) Deadlines(ctx context.Context, courseID int) ([]Deadline, error) {
	resp, err := s.client.Call(ctx, fmt.Sprintf("/api/deadlines/%d", courseID), api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var deadlines []Deadline
	if err := resp.Decode(&deadlines); err != nil {
		return nil, err
	}
	return deadlines, nil
}

// DownloadFile fetches a course file's bytes as a transient reference the
// caller can open locally. The caller owns the reference and must release it.
func (s *CourseService) DownloadFile(ctx context.Context, courseID int, name string) (*api.FileRef, error) {
	return s.client.FetchFile(ctx, fmt.Sprintf("/api/get_file/%d/%s", courseID, name))
}

// Assignments retrieves all submittable assignments.
func (s *CourseService) Assignments(ctx context.Context) ([]Assignment, error) {
	resp, err := s.client.Call(ctx, "/api/assignments", api.CallOptions{})
	if err != nil {
		return nil, err
	}

	var assignments []Assignment
	if err := resp.Decode(&assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}
