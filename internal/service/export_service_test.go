package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/export"
)

type stubPaperLister struct {
	papers []models.QuestionPaper
	filter models.QuestionPaperFilter
}

func (s *stubPaperLister) List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error) {
	s.filter = filter
	return s.papers, nil
}

func newTestExportService(papers *stubPaperLister) *ExportService {
	auth := NewAuthService(nil, nil, nil, nil, nil, AuthConfig{Secret: "test"})
	svc := NewExportService(papers, auth, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	papers := &stubPaperLister{papers: []models.QuestionPaper{{
		Title:       "Operating Systems Endterm",
		Year:        2023,
		Semester:    5,
		ExamType:    models.ExamEndterm,
		FileSize:    2048,
		SubjectName: "Operating Systems",
		CourseName:  "Computer Science",
		UploadedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}}}
	svc := newTestExportService(papers)

	file, err := svc.QuestionPapers(context.Background(), testActor(), models.QuestionPaperFilter{Semester: intPtr(5)}, "")
	require.NoError(t, err)
	assert.Equal(t, "question-papers-20240517.csv", file.Filename)
	assert.Equal(t, export.FormatCSV.ContentType(), file.ContentType)
	require.NotNil(t, papers.filter.Semester)
	assert.Equal(t, 5, *papers.filter.Semester)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Course,Subject,Year,Semester,Exam type,Size,Uploaded", lines[0])
	assert.Equal(t, "Operating Systems Endterm,Computer Science,Operating Systems,2023,5,endterm,2.0 KB,2024-01-02", lines[1])
}

func TestExportServicePDF(t *testing.T) {
	svc := newTestExportService(&stubPaperLister{})

	file, err := svc.QuestionPapers(context.Background(), testActor(), models.QuestionPaperFilter{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "question-papers-20240517.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newTestExportService(&stubPaperLister{})

	_, err := svc.QuestionPapers(context.Background(), testActor(), models.QuestionPaperFilter{}, "xlsx")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "format")
}

func TestExportServiceRequiresSession(t *testing.T) {
	svc := newTestExportService(&stubPaperLister{})

	_, err := svc.QuestionPapers(context.Background(), nil, models.QuestionPaperFilter{}, "csv")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
