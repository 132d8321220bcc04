package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	FileKeys(ctx context.Context, id string) ([]string, error)
	DeleteCascade(ctx context.Context, id string) error
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// SubjectService manages subjects and the subject-level cascade.
type SubjectService struct {
	repo      subjectRepository
	courses   courseFinder
	auth      authGate
	files     janitor
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the service.
func NewSubjectService(repo subjectRepository, courses courseFinder, auth authGate, files fileStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &SubjectService{
		repo:      repo,
		courses:   courses,
		auth:      auth,
		files:     janitor{files: files, metrics: metrics, logger: logger},
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns all subjects ordered by course, semester and name.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subjects")
	}
	return subjects, nil
}

// ListByCourse returns the subjects of an existing course.
func (s *SubjectService) ListByCourse(ctx context.Context, courseID string) ([]models.Subject, error) {
	if err := requireID(courseID, "course"); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, lookupError(err, "course")
	}
	subjects, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	if err := requireID(id, "subject"); err != nil {
		return nil, err
	}
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	return subject, nil
}

// Create adds a subject to an existing course. Nothing is persisted when the
// course is missing.
func (s *SubjectService) Create(ctx context.Context, actor *models.SessionClaims, input models.SubjectInput) (*models.Subject, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid subject payload")
	}
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, lookupError(err, "course")
	}

	subject := &models.Subject{Name: input.Name, CourseID: course.ID, Semester: input.Semester, CourseName: course.Name}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, writeError(err, "subject", "course", "create")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.String("course_id", course.ID), zap.String("admin_id", actor.AdminID))
	return subject, nil
}

// Update edits a subject and may move it to another course.
func (s *SubjectService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.SubjectInput) (*models.Subject, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	if err := requireID(id, "subject"); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	course, err := s.courses.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, lookupError(err, "course")
	}

	subject.Name = input.Name
	subject.CourseID = course.ID
	subject.CourseName = course.Name
	subject.Semester = input.Semester
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, writeError(err, "subject", "course", "update")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("subject updated", zap.String("subject_id", id), zap.String("admin_id", actor.AdminID))
	return subject, nil
}

// Delete removes the subject with its notes and question papers, deleting
// their files first on a best-effort basis.
func (s *SubjectService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	if err := s.auth.RequireAuth(actor); err != nil {
		return err
	}
	if err := requireID(id, "subject"); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "subject")
	}

	keys, err := s.repo.FileKeys(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to list subject files")
	}
	failed := s.files.remove(kindCascade, keys...)

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return writeError(err, "subject", "", "delete")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("subject deleted",
		zap.String("subject_id", id),
		zap.String("admin_id", actor.AdminID),
		zap.Int("files", len(keys)),
		zap.Int("file_failures", failed),
	)
	return nil
}
