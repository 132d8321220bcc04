package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-archive-api/internal/models"
)

const paperSelect = `SELECT q.id, q.title, q.year, q.semester, q.exam_type, q.filename, q.original_filename,
       q.file_size, q.subject_id, q.uploaded_at, s.name AS subject_name, c.name AS course_name
	FROM question_papers q
	JOIN subjects s ON s.id = q.subject_id
	JOIN courses c ON c.id = s.course_id`

const paperOrder = ` ORDER BY q.year DESC, q.semester ASC, q.uploaded_at DESC`

// QuestionPaperRepository handles question paper metadata persistence.
type QuestionPaperRepository struct {
	db *sqlx.DB
}

// NewQuestionPaperRepository constructs the repository.
func NewQuestionPaperRepository(db *sqlx.DB) *QuestionPaperRepository {
	return &QuestionPaperRepository{db: db}
}

// Create stores metadata for an uploaded paper.
func (r *QuestionPaperRepository) Create(ctx context.Context, paper *models.QuestionPaper) error {
	if paper.ID == "" {
		paper.ID = uuid.NewString()
	}
	if paper.UploadedAt.IsZero() {
		paper.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO question_papers
	(id, title, year, semester, exam_type, filename, original_filename, file_size, subject_id, uploaded_at)
	VALUES (:id, :title, :year, :semester, :exam_type, :filename, :original_filename, :file_size, :subject_id, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, paper); err != nil {
		return fmt.Errorf("create question paper: %w", err)
	}
	return nil
}

// Update rewrites a paper's metadata and file reference.
func (r *QuestionPaperRepository) Update(ctx context.Context, paper *models.QuestionPaper) error {
	const query = `UPDATE question_papers SET title = :title, year = :year, semester = :semester,
	exam_type = :exam_type, subject_id = :subject_id, filename = :filename,
	original_filename = :original_filename, file_size = :file_size
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, paper)
	if err != nil {
		return fmt.Errorf("update question paper: %w", err)
	}
	return requireAffected(res, "update question paper")
}

// FindByID retrieves one paper.
func (r *QuestionPaperRepository) FindByID(ctx context.Context, id string) (*models.QuestionPaper, error) {
	var paper models.QuestionPaper
	if err := r.db.GetContext(ctx, &paper, paperSelect+` WHERE q.id = $1`, id); err != nil {
		return nil, err
	}
	return &paper, nil
}

// FindByFilename retrieves the paper stored under key.
func (r *QuestionPaperRepository) FindByFilename(ctx context.Context, key string) (*models.QuestionPaper, error) {
	var paper models.QuestionPaper
	if err := r.db.GetContext(ctx, &paper, paperSelect+` WHERE q.filename = $1`, key); err != nil {
		return nil, err
	}
	return &paper, nil
}

// List returns papers matching filter ordered by year descending, then
// semester ascending, then newest upload.
func (r *QuestionPaperRepository) List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error) {
	builder := strings.Builder{}
	builder.WriteString(paperSelect)
	args := make([]interface{}, 0, 3)
	conditions := make([]string, 0, 3)

	if filter.Semester != nil {
		args = append(args, *filter.Semester)
		conditions = append(conditions, fmt.Sprintf("q.semester = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("q.year = $%d", len(args)))
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		conditions = append(conditions, fmt.Sprintf("q.subject_id = $%d", len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(paperOrder)

	var papers []models.QuestionPaper
	if err := r.db.SelectContext(ctx, &papers, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list question papers: %w", err)
	}
	return papers, nil
}

// ListRecent returns the newest uploads.
func (r *QuestionPaperRepository) ListRecent(ctx context.Context, limit int) ([]models.QuestionPaper, error) {
	if limit <= 0 {
		limit = 5
	}
	query := paperSelect + fmt.Sprintf(" ORDER BY q.uploaded_at DESC LIMIT %d", limit)
	var papers []models.QuestionPaper
	if err := r.db.SelectContext(ctx, &papers, query); err != nil {
		return nil, fmt.Errorf("list recent question papers: %w", err)
	}
	return papers, nil
}

// Facets returns the distinct years (newest first) and semesters present.
func (r *QuestionPaperRepository) Facets(ctx context.Context) (*models.PaperFacets, error) {
	facets := &models.PaperFacets{Years: []int{}, Semesters: []int{}}
	if err := r.db.SelectContext(ctx, &facets.Years, `SELECT DISTINCT year FROM question_papers ORDER BY year DESC`); err != nil {
		return nil, fmt.Errorf("list question paper years: %w", err)
	}
	if err := r.db.SelectContext(ctx, &facets.Semesters, `SELECT DISTINCT semester FROM question_papers ORDER BY semester ASC`); err != nil {
		return nil, fmt.Errorf("list question paper semesters: %w", err)
	}
	return facets, nil
}

// Delete removes a paper row.
func (r *QuestionPaperRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM question_papers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question paper: %w", err)
	}
	return requireAffected(res, "delete question paper")
}

// Count returns the number of papers.
func (r *QuestionPaperRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM question_papers`); err != nil {
		return 0, fmt.Errorf("count question papers: %w", err)
	}
	return total, nil
}
