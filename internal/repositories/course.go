package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quillfox/lmx/internal/models"
	"github.com/quillfox/lmx/internal/shared"
)

// CourseRepository implements [models.Repository] for cached [models.Course] rows.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new [CourseRepository] with the given database connection
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new cached course with a generated ID
func (r *CourseRepository) Create(course *models.Course) error {
	id := shared.GenerateID()
	course.SetID(id)

	if err := course.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO courses (id, course_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, course.CourseID(), course.Name(), course.CreatedAt(), course.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	return nil
}

// Get retrieves a cached course by ID, excluding soft-deleted rows
func (r *CourseRepository) Get(id string) (*models.Course, error) {
	query := `
		SELECT id, course_id, name, created_at, updated_at, deleted_at
		FROM courses
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByCourseID retrieves a cached course by its backend course id
func (r *CourseRepository) GetByCourseID(courseID int) (*models.Course, error) {
	query := `
		SELECT id, course_id, name, created_at, updated_at, deleted_at
		FROM courses
		WHERE course_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, courseID), fmt.Sprintf("course_id=%d", courseID))
}

// Update modifies an existing cached course
func (r *CourseRepository) Update(course *models.Course) error {
	if err := course.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	course.SetUpdatedAt(now)

	query := `
		UPDATE courses
		SET course_id = ?, name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, course.CourseID(), course.Name(), now, course.ID())
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCourseNotFound, course.ID())
	}

	return nil
}

// Delete soft-deletes a cached course by ID
func (r *CourseRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE courses
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCourseNotFound, id)
	}

	return nil
}

// List retrieves all cached courses matching the given criteria, excluding soft-deleted rows
func (r *CourseRepository) List(criteria map[string]any) ([]*models.Course, error) {
	query := `
		SELECT id, course_id, name, created_at, updated_at, deleted_at
		FROM courses
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return courses, nil
}

func (r *CourseRepository) scanOne(row *sql.Row, key string) (*models.Course, error) {
	var (
		id        string
		courseID  int
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &courseID, &name, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrCourseNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query course: %w", err)
	}

	return buildCourse(id, courseID, name, createdAt, updatedAt, deletedAt), nil
}

func (r *CourseRepository) scanRow(rows *sql.Rows) (*models.Course, error) {
	var (
		id        string
		courseID  int
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := rows.Scan(&id, &courseID, &name, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	return buildCourse(id, courseID, name, createdAt, updatedAt, deletedAt), nil
}

func buildCourse(id string, courseID int, name string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Course {
	course := models.NewCourse(courseID, name)
	course.SetID(id)
	course.SetCreatedAt(createdAt)
	course.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		course.SetDeletedAt(&deletedAt.Time)
	}
	return course
}
