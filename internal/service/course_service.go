package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	FileKeys(ctx context.Context, id string) ([]string, error)
	DeleteCascade(ctx context.Context, id string) error
}

type courseSubjectLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Subject, error)
}

// CourseService manages courses and the course-level cascade.
type CourseService struct {
	repo      courseRepository
	subjects  courseSubjectLister
	auth      authGate
	files     janitor
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(repo courseRepository, subjects courseSubjectLister, auth authGate, files fileStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &CourseService{
		repo:      repo,
		subjects:  subjects,
		auth:      auth,
		files:     janitor{files: files, metrics: metrics, logger: logger},
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns every course ordered by name.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course with its subjects.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	if err := requireID(id, "course"); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	subjects, err := s.subjects.ListByCourse(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return &models.CourseDetail{Course: *course, Subjects: subjects}, nil
}

// Create adds a course. Names are unique regardless of case.
func (s *CourseService) Create(ctx context.Context, actor *models.SessionClaims, input models.CourseInput) (*models.Course, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	input = normalizeCourse(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid course payload")
	}
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	course := &models.Course{Name: input.Name, Description: input.Description}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course", "", "create")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("admin_id", actor.AdminID))
	return course, nil
}

// Update renames or re-describes a course.
func (s *CourseService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.CourseInput) (*models.Course, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	if err := requireID(id, "course"); err != nil {
		return nil, err
	}
	input = normalizeCourse(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	if err := s.ensureNameFree(ctx, input.Name, id); err != nil {
		return nil, err
	}

	course.Name = input.Name
	course.Description = input.Description
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, writeError(err, "course", "", "update")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("course updated", zap.String("course_id", id), zap.String("admin_id", actor.AdminID))
	return course, nil
}

// Delete removes the course with every subject, note and question paper
// beneath it. Stored files are removed first; failures there are logged and
// do not stop the row deletion.
func (s *CourseService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	if err := s.auth.RequireAuth(actor); err != nil {
		return err
	}
	if err := requireID(id, "course"); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "course")
	}

	keys, err := s.repo.FileKeys(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to list course files")
	}
	failed := s.files.remove(kindCascade, keys...)

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return writeError(err, "course", "", "delete")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("course deleted",
		zap.String("course_id", id),
		zap.String("admin_id", actor.AdminID),
		zap.Int("files", len(keys)),
		zap.Int("file_failures", failed),
	)
	return nil
}

func (s *CourseService) ensureNameFree(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to check course name")
	}
	if exists {
		e := appErrors.Clone(appErrors.ErrConflict, "a course with this name already exists")
		e.Fields = map[string]string{"name": "already exists"}
		return e
	}
	return nil
}

func normalizeCourse(input models.CourseInput) models.CourseInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	return input
}
