package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quillfox/lmx/internal/models"
	"github.com/quillfox/lmx/internal/shared"
)

// FileRepository implements [models.Repository] for cached [models.CourseFile] rows.
type FileRepository struct {
	db *sql.DB
}

// NewFileRepository creates a new [FileRepository] with the given database connection
func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts a new cached course file with a generated ID
func (r *FileRepository) Create(file *models.CourseFile) error {
	id := shared.GenerateID()
	file.SetID(id)

	if err := file.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO course_files (id, course_id, file_id, name, file_type, downloaded_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, file.CourseID(), file.FileID(), file.Name(), file.FileType(),
		file.DownloadedAt(), file.CreatedAt(), file.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert course file: %w", err)
	}

	return nil
}

// Get retrieves a cached course file by ID, excluding soft-deleted rows
func (r *FileRepository) Get(id string) (*models.CourseFile, error) {
	query := `
		SELECT id, course_id, file_id, name, file_type, downloaded_at, created_at, updated_at, deleted_at
		FROM course_files
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByFileID retrieves a cached file by its course and backend file ids
func (r *FileRepository) GetByFileID(courseID, fileID int) (*models.CourseFile, error) {
	query := `
		SELECT id, course_id, file_id, name, file_type, downloaded_at, created_at, updated_at, deleted_at
		FROM course_files
		WHERE course_id = ? AND file_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, courseID, fileID), fmt.Sprintf("course_id=%d file_id=%d", courseID, fileID))
}

// Update modifies an existing cached course file
func (r *FileRepository) Update(file *models.CourseFile) error {
	if err := file.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	file.SetUpdatedAt(now)

	query := `
		UPDATE course_files
		SET name = ?, file_type = ?, downloaded_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, file.Name(), file.FileType(), file.DownloadedAt(), now, file.ID())
	if err != nil {
		return fmt.Errorf("failed to update course file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFileNotFound, file.ID())
	}

	return nil
}

// Delete soft-deletes a cached course file by ID
func (r *FileRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE course_files
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete course file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFileNotFound, id)
	}

	return nil
}

// List retrieves all cached files matching the given criteria, excluding soft-deleted rows.
// Supported criteria: course_id (int), file_type (string), downloaded (bool).
func (r *FileRepository) List(criteria map[string]any) ([]*models.CourseFile, error) {
	query := `
		SELECT id, course_id, file_id, name, file_type, downloaded_at, created_at, updated_at, deleted_at
		FROM course_files
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if courseID, ok := criteria["course_id"].(int); ok && courseID > 0 {
		query += " AND course_id = ?"
		args = append(args, courseID)
	}
	if fileType, ok := criteria["file_type"].(string); ok && fileType != "" {
		query += " AND file_type = ?"
		args = append(args, fileType)
	}
	if downloaded, ok := criteria["downloaded"].(bool); ok {
		if downloaded {
			query += " AND downloaded_at IS NOT NULL"
		} else {
			query += " AND downloaded_at IS NULL"
		}
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course files: %w", err)
	}
	defer rows.Close()

	var files []*models.CourseFile
	for rows.Next() {
		file, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return files, nil
}

// MarkDownloaded records that the file was downloaded at the given time
func (r *FileRepository) MarkDownloaded(courseID, fileID int, at time.Time) error {
	query := `
		UPDATE course_files
		SET downloaded_at = ?, updated_at = ?
		WHERE course_id = ? AND file_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, at, at, courseID, fileID)
	if err != nil {
		return fmt.Errorf("failed to mark file downloaded: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: course_id=%d file_id=%d", shared.ErrFileNotFound, courseID, fileID)
	}

	return nil
}

func (r *FileRepository) scanOne(row *sql.Row, key string) (*models.CourseFile, error) {
	var (
		id           string
		courseID     int
		fileID       int
		name         string
		fileType     string
		downloadedAt sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &courseID, &fileID, &name, &fileType, &downloadedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrFileNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query course file: %w", err)
	}

	return buildCourseFile(id, courseID, fileID, name, fileType, downloadedAt, createdAt, updatedAt, deletedAt), nil
}

func (r *FileRepository) scanRow(rows *sql.Rows) (*models.CourseFile, error) {
	var (
		id           string
		courseID     int
		fileID       int
		name         string
		fileType     string
		downloadedAt sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	if err := rows.Scan(&id, &courseID, &fileID, &name, &fileType, &downloadedAt, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, fmt.Errorf("failed to scan course file: %w", err)
	}

	return buildCourseFile(id, courseID, fileID, name, fileType, downloadedAt, createdAt, updatedAt, deletedAt), nil
}

func buildCourseFile(id string, courseID, fileID int, name, fileType string, downloadedAt sql.NullTime, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CourseFile {
	file := models.NewCourseFile(courseID, fileID, name, fileType)
	file.SetID(id)
	file.SetCreatedAt(createdAt)
	file.SetUpdatedAt(updatedAt)
	if downloadedAt.Valid {
		file.SetDownloadedAt(&downloadedAt.Time)
	}
	if deletedAt.Valid {
		file.SetDeletedAt(&deletedAt.Time)
	}
	return file
}
