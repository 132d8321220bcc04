package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-archive-api/internal/models"
)

// CourseRepository handles course persistence and the course-level cascade.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course with its subject count ordered by name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT c.id, c.name, c.description, c.created_at, COUNT(s.id) AS subject_count
	FROM courses c
	LEFT JOIN subjects s ON s.course_id = c.id
	GROUP BY c.id, c.name, c.description, c.created_at
	ORDER BY LOWER(c.name) ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a single course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT c.id, c.name, c.description, c.created_at,
	(SELECT COUNT(*) FROM subjects s WHERE s.course_id = c.id) AS subject_count
	FROM courses c WHERE c.id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByName reports whether another course already uses name,
// compared case-insensitively. excludeID skips the course being edited.
func (r *CourseRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE LOWER(name) = LOWER($1) AND id::text <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("check course name: %w", err)
	}
	return exists, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, name, description, created_at)
	VALUES (:id, :name, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update changes the name and description of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET name = :name, description = :description WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(res, "update course")
}

// FileKeys returns the storage keys of every note and paper under the course.
func (r *CourseRepository) FileKeys(ctx context.Context, id string) ([]string, error) {
	const query = `SELECT n.filename FROM notes n JOIN subjects s ON s.id = n.subject_id WHERE s.course_id = $1
	UNION ALL
	SELECT q.filename FROM question_papers q JOIN subjects s ON s.id = q.subject_id WHERE s.course_id = $1`
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, id); err != nil {
		return nil, fmt.Errorf("list course files: %w", err)
	}
	return keys, nil
}

// DeleteCascade removes the course, its subjects and their notes and papers
// in one transaction. It returns sql.ErrNoRows when the course is missing.
func (r *CourseRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		name  string
		query string
	}{
		{"question papers", `DELETE FROM question_papers WHERE subject_id IN (SELECT id FROM subjects WHERE course_id = $1)`},
		{"notes", `DELETE FROM notes WHERE subject_id IN (SELECT id FROM subjects WHERE course_id = $1)`},
		{"subjects", `DELETE FROM subjects WHERE course_id = $1`},
	}
	for _, step := range steps {
		if _, err = tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("delete course %s: %w", step.name, err)
		}
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if err = requireAffected(res, "delete course"); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}

// Count returns the number of courses.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM courses`); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return total, nil
}
