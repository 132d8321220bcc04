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

const subjectColumns = `s.id, s.name, s.course_id, s.semester, s.created_at, c.name AS course_name`

// SubjectRepository handles subject persistence and the subject-level cascade.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by course name, semester and name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	query := `SELECT ` + subjectColumns + `
	FROM subjects s JOIN courses c ON c.id = s.course_id
	ORDER BY LOWER(c.name) ASC, s.semester ASC, LOWER(s.name) ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListByCourse returns subjects of one course ordered by semester and name.
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Subject, error) {
	query := `SELECT ` + subjectColumns + `
	FROM subjects s JOIN courses c ON c.id = s.course_id
	WHERE s.course_id = $1
	ORDER BY s.semester ASC, LOWER(s.name) ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, courseID); err != nil {
		return nil, fmt.Errorf("list course subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns one subject with its course name.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := `SELECT ` + subjectColumns + `
	FROM subjects s JOIN courses c ON c.id = s.course_id
	WHERE s.id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subjects (id, name, course_id, semester, created_at)
	VALUES (:id, :name, :course_id, :semester, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update changes a subject's name, course and semester.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	const query = `UPDATE subjects SET name = :name, course_id = :course_id, semester = :semester WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return requireAffected(res, "update subject")
}

// FileKeys returns the storage keys of every note and paper under the subject.
func (r *SubjectRepository) FileKeys(ctx context.Context, id string) ([]string, error) {
	const query = `SELECT filename FROM notes WHERE subject_id = $1
	UNION ALL
	SELECT filename FROM question_papers WHERE subject_id = $1`
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, id); err != nil {
		return nil, fmt.Errorf("list subject files: %w", err)
	}
	return keys, nil
}

// DeleteCascade removes the subject with its notes and papers in one
// transaction. It returns sql.ErrNoRows when the subject is missing.
func (r *SubjectRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete subject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM question_papers WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete subject question papers: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM notes WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete subject notes: %w", err)
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if err = requireAffected(res, "delete subject"); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete subject: %w", err)
	}
	return nil
}

// Count returns the number of subjects.
func (r *SubjectRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM subjects`); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return total, nil
}
