package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-archive-api/internal/models"
)

const noteSelect = `SELECT n.id, n.title, n.description, n.filename, n.original_filename, n.file_size,
       n.subject_id, n.uploaded_at, s.name AS subject_name, c.name AS course_name
	FROM notes n
	JOIN subjects s ON s.id = n.subject_id
	JOIN courses c ON c.id = s.course_id`

// NoteRepository handles note metadata persistence.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository constructs the repository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create stores metadata for an uploaded note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.UploadedAt.IsZero() {
		note.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notes
	(id, title, description, filename, original_filename, file_size, subject_id, uploaded_at)
	VALUES (:id, :title, :description, :filename, :original_filename, :file_size, :subject_id, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Update rewrites a note's metadata and file reference.
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	const query = `UPDATE notes SET title = :title, description = :description, subject_id = :subject_id,
	filename = :filename, original_filename = :original_filename, file_size = :file_size
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, note)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireAffected(res, "update note")
}

// FindByID retrieves one note.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, noteSelect+` WHERE n.id = $1`, id); err != nil {
		return nil, err
	}
	return &note, nil
}

// FindByFilename retrieves the note stored under key.
func (r *NoteRepository) FindByFilename(ctx context.Context, key string) (*models.Note, error) {
	var note models.Note
	if err := r.db.GetContext(ctx, &note, noteSelect+` WHERE n.filename = $1`, key); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListBySubject returns the notes of a subject, newest first.
func (r *NoteRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	var notes []models.Note
	query := noteSelect + ` WHERE n.subject_id = $1 ORDER BY n.uploaded_at DESC`
	if err := r.db.SelectContext(ctx, &notes, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject notes: %w", err)
	}
	return notes, nil
}

// List returns notes newest first. A limit of zero returns every row.
func (r *NoteRepository) List(ctx context.Context, limit int) ([]models.Note, error) {
	query := noteSelect + ` ORDER BY n.uploaded_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note row.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireAffected(res, "delete note")
}

// Count returns the number of notes.
func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notes`); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return total, nil
}
