package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

const recentLimit = 5

type noteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	FindByID(ctx context.Context, id string) (*models.Note, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error)
	List(ctx context.Context, limit int) ([]models.Note, error)
	Delete(ctx context.Context, id string) error
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// NoteService manages lecture notes and their stored files.
type NoteService struct {
	repo      noteRepository
	subjects  subjectFinder
	auth      authGate
	files     janitor
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoteService constructs the service.
func NewNoteService(repo noteRepository, subjects subjectFinder, auth authGate, files fileStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &NoteService{
		repo:      repo,
		subjects:  subjects,
		auth:      auth,
		files:     janitor{files: files, metrics: metrics, logger: logger},
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Get returns one note.
func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	if err := requireID(id, "note"); err != nil {
		return nil, err
	}
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "note")
	}
	return note, nil
}

// ListBySubject returns the notes of an existing subject, newest first.
func (s *NoteService) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	if err := requireID(subjectID, "subject"); err != nil {
		return nil, err
	}
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		return nil, lookupError(err, "subject")
	}
	notes, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notes")
	}
	return notes, nil
}

// ListRecent returns the newest notes.
func (s *NoteService) ListRecent(ctx context.Context, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = recentLimit
	}
	notes, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent notes")
	}
	return notes, nil
}

// List returns every note, newest first.
func (s *NoteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notes")
	}
	return notes, nil
}

// Create stores the upload and records the note. A failed store persists
// nothing; a failed insert removes the stored file again.
func (s *NoteService) Create(ctx context.Context, actor *models.SessionClaims, input models.NoteInput, upload *models.Upload) (*models.Note, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	input = normalizeNote(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid note payload")
	}
	subject, err := s.subjects.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject")
	}

	stored, err := s.files.store(kindNote, upload, storage.NotePolicy)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		Title:            input.Title,
		Description:      input.Description,
		Filename:         stored.Key,
		OriginalFilename: stored.OriginalName,
		FileSize:         stored.Size,
		SubjectID:        subject.ID,
		SubjectName:      subject.Name,
		CourseName:       subject.CourseName,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		s.files.remove(kindNote, stored.Key)
		return nil, writeError(err, "note", "subject", "create")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("note uploaded",
		zap.String("note_id", note.ID),
		zap.String("subject_id", subject.ID),
		zap.String("key", stored.Key),
		zap.Int64("size", stored.Size),
		zap.String("admin_id", actor.AdminID),
	)
	return note, nil
}

// Update edits note metadata. With a replacement upload the new file is
// stored first, then the row is updated, then the old file is removed.
func (s *NoteService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.NoteInput, upload *models.Upload) (*models.Note, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	if err := requireID(id, "note"); err != nil {
		return nil, err
	}
	input = normalizeNote(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid note payload")
	}

	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "note")
	}
	subject, err := s.subjects.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject")
	}

	oldKey := ""
	if upload != nil {
		stored, err := s.files.store(kindNote, upload, storage.NotePolicy)
		if err != nil {
			return nil, err
		}
		oldKey = note.Filename
		note.Filename = stored.Key
		note.OriginalFilename = stored.OriginalName
		note.FileSize = stored.Size
	}

	note.Title = input.Title
	note.Description = input.Description
	note.SubjectID = subject.ID
	note.SubjectName = subject.Name
	note.CourseName = subject.CourseName

	if err := s.repo.Update(ctx, note); err != nil {
		if oldKey != "" {
			s.files.remove(kindNote, note.Filename)
		}
		return nil, writeError(err, "note", "subject", "update")
	}
	if oldKey != "" {
		s.files.remove(kindNote, oldKey)
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("note updated", zap.String("note_id", id), zap.Bool("file_replaced", oldKey != ""), zap.String("admin_id", actor.AdminID))
	return note, nil
}

// Delete removes the stored file and then the note row.
func (s *NoteService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	if err := s.auth.RequireAuth(actor); err != nil {
		return err
	}
	if err := requireID(id, "note"); err != nil {
		return err
	}
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "note")
	}

	s.files.remove(kindNote, note.Filename)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "note", "", "delete")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("note deleted", zap.String("note_id", id), zap.String("admin_id", actor.AdminID))
	return nil
}

func normalizeNote(input models.NoteInput) models.NoteInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	return input
}
