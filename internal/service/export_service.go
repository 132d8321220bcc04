package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/export"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

type paperLister interface {
	List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var paperColumns = []export.Column{
	{Key: "title", Title: "Title", Weight: 3},
	{Key: "course", Title: "Course", Weight: 2},
	{Key: "subject", Title: "Subject", Weight: 2},
	{Key: "year", Title: "Year"},
	{Key: "semester", Title: "Semester"},
	{Key: "exam_type", Title: "Exam type", Weight: 1.3},
	{Key: "size", Title: "Size"},
	{Key: "uploaded_at", Title: "Uploaded", Weight: 1.5},
}

// ExportService renders the question paper catalog as CSV or PDF.
type ExportService struct {
	papers paperLister
	auth   authGate
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(papers paperLister, auth authGate, csv, pdf datasetRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{papers: papers, auth: auth, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// QuestionPapers renders the papers matching filter in the requested format.
func (s *ExportService) QuestionPapers(ctx context.Context, actor *models.SessionClaims, filter models.QuestionPaperFilter, rawFormat string) (*dto.ExportFile, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.FieldError("format", "must be one of: csv, pdf")
	}
	if filter, err = normalizePaperFilter(filter); err != nil {
		return nil, err
	}

	papers, err := s.papers.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list question papers")
	}

	data := export.Dataset{Title: "Question paper catalog", Columns: paperColumns}
	for _, paper := range papers {
		data.Rows = append(data.Rows, map[string]string{
			"title":       paper.Title,
			"course":      paper.CourseName,
			"subject":     paper.SubjectName,
			"year":        strconv.Itoa(paper.Year),
			"semester":    strconv.Itoa(paper.Semester),
			"exam_type":   string(paper.ExamType),
			"size":        storage.FormatSize(paper.FileSize),
			"uploaded_at": paper.UploadedAt.UTC().Format("2006-01-02"),
		})
	}

	renderer := s.csv
	if format == export.FormatPDF {
		renderer = s.pdf
	}
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("question papers exported", zap.String("format", string(format)), zap.Int("rows", len(papers)), zap.String("admin_id", actor.AdminID))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("question-papers-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}
