package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

type questionPaperRepository interface {
	Create(ctx context.Context, paper *models.QuestionPaper) error
	Update(ctx context.Context, paper *models.QuestionPaper) error
	FindByID(ctx context.Context, id string) (*models.QuestionPaper, error)
	List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error)
	ListRecent(ctx context.Context, limit int) ([]models.QuestionPaper, error)
	Facets(ctx context.Context) (*models.PaperFacets, error)
	Delete(ctx context.Context, id string) error
}

// QuestionPaperService manages exam papers and their stored files.
type QuestionPaperService struct {
	repo      questionPaperRepository
	subjects  subjectFinder
	auth      authGate
	files     janitor
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionPaperService constructs the service.
func NewQuestionPaperService(repo questionPaperRepository, subjects subjectFinder, auth authGate, files fileStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *QuestionPaperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &QuestionPaperService{
		repo:      repo,
		subjects:  subjects,
		auth:      auth,
		files:     janitor{files: files, metrics: metrics, logger: logger},
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Get returns one paper.
func (s *QuestionPaperService) Get(ctx context.Context, id string) (*models.QuestionPaper, error) {
	if err := requireID(id, "question paper"); err != nil {
		return nil, err
	}
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "question paper")
	}
	return paper, nil
}

// List returns papers matching filter ordered by year descending and
// semester ascending.
func (s *QuestionPaperService) List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error) {
	filter, err := normalizePaperFilter(filter)
	if err != nil {
		return nil, err
	}
	papers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list question papers")
	}
	return papers, nil
}

// ListRecent returns the newest papers.
func (s *QuestionPaperService) ListRecent(ctx context.Context, limit int) ([]models.QuestionPaper, error) {
	if limit <= 0 {
		limit = recentLimit
	}
	papers, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent question papers")
	}
	return papers, nil
}

// Facets returns the distinct years and semesters present.
func (s *QuestionPaperService) Facets(ctx context.Context) (*models.PaperFacets, error) {
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load question paper filters")
	}
	return facets, nil
}

// Create stores the upload and records the paper.
func (s *QuestionPaperService) Create(ctx context.Context, actor *models.SessionClaims, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	input = normalizePaper(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid question paper payload")
	}
	subject, err := s.subjects.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject")
	}

	stored, err := s.files.store(kindQuestionPaper, upload, storage.QuestionPaperPolicy)
	if err != nil {
		return nil, err
	}

	paper := &models.QuestionPaper{
		Title:            input.Title,
		Year:             input.Year,
		Semester:         input.Semester,
		ExamType:         input.ExamType,
		Filename:         stored.Key,
		OriginalFilename: stored.OriginalName,
		FileSize:         stored.Size,
		SubjectID:        subject.ID,
		SubjectName:      subject.Name,
		CourseName:       subject.CourseName,
	}
	if err := s.repo.Create(ctx, paper); err != nil {
		s.files.remove(kindQuestionPaper, stored.Key)
		return nil, writeError(err, "question paper", "subject", "create")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("question paper uploaded",
		zap.String("paper_id", paper.ID),
		zap.String("subject_id", subject.ID),
		zap.String("key", stored.Key),
		zap.Int64("size", stored.Size),
		zap.String("admin_id", actor.AdminID),
	)
	return paper, nil
}

// Update edits paper metadata, optionally replacing its file using the
// store-new, update-row, delete-old order.
func (s *QuestionPaperService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	if err := requireID(id, "question paper"); err != nil {
		return nil, err
	}
	input = normalizePaper(input)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.FromValidation(err, "invalid question paper payload")
	}

	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "question paper")
	}
	subject, err := s.subjects.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject")
	}

	oldKey := ""
	if upload != nil {
		stored, err := s.files.store(kindQuestionPaper, upload, storage.QuestionPaperPolicy)
		if err != nil {
			return nil, err
		}
		oldKey = paper.Filename
		paper.Filename = stored.Key
		paper.OriginalFilename = stored.OriginalName
		paper.FileSize = stored.Size
	}

	paper.Title = input.Title
	paper.Year = input.Year
	paper.Semester = input.Semester
	paper.ExamType = input.ExamType
	paper.SubjectID = subject.ID
	paper.SubjectName = subject.Name
	paper.CourseName = subject.CourseName

	if err := s.repo.Update(ctx, paper); err != nil {
		if oldKey != "" {
			s.files.remove(kindQuestionPaper, paper.Filename)
		}
		return nil, writeError(err, "question paper", "subject", "update")
	}
	if oldKey != "" {
		s.files.remove(kindQuestionPaper, oldKey)
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("question paper updated", zap.String("paper_id", id), zap.Bool("file_replaced", oldKey != ""), zap.String("admin_id", actor.AdminID))
	return paper, nil
}

// Delete removes the stored file and then the paper row.
func (s *QuestionPaperService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	if err := s.auth.RequireAuth(actor); err != nil {
		return err
	}
	if err := requireID(id, "question paper"); err != nil {
		return err
	}
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "question paper")
	}

	s.files.remove(kindQuestionPaper, paper.Filename)
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "question paper", "", "delete")
	}

	s.cache.InvalidatePublic(ctx)
	s.logger.Info("question paper deleted", zap.String("paper_id", id), zap.String("admin_id", actor.AdminID))
	return nil
}

// normalizePaperFilter drops zero semester and year values, which mean "any",
// and rejects out-of-range values and malformed subject ids.
func normalizePaperFilter(filter models.QuestionPaperFilter) (models.QuestionPaperFilter, error) {
	if filter.Semester != nil && *filter.Semester == 0 {
		filter.Semester = nil
	}
	if filter.Year != nil && *filter.Year == 0 {
		filter.Year = nil
	}
	filter.SubjectID = strings.TrimSpace(filter.SubjectID)

	fields := map[string]string{}
	if filter.Semester != nil && (*filter.Semester < models.MinSemester || *filter.Semester > models.MaxSemester) {
		fields["semester"] = fmt.Sprintf("must be between %d and %d", models.MinSemester, models.MaxSemester)
	}
	if filter.Year != nil && (*filter.Year < models.MinPaperYear || *filter.Year > models.MaxPaperYear) {
		fields["year"] = fmt.Sprintf("must be between %d and %d", models.MinPaperYear, models.MaxPaperYear)
	}
	if filter.SubjectID != "" {
		if _, err := uuid.Parse(filter.SubjectID); err != nil {
			fields["subject_id"] = "must be a valid identifier"
		}
	}
	if len(fields) == 0 {
		return filter, nil
	}
	e := appErrors.Clone(appErrors.ErrValidation, "invalid question paper filter")
	e.Fields = fields
	return filter, e
}

func normalizePaper(input models.QuestionPaperInput) models.QuestionPaperInput {
	input.Title = strings.TrimSpace(input.Title)
	input.ExamType = models.ExamType(strings.ToLower(strings.TrimSpace(string(input.ExamType))))
	return input
}
