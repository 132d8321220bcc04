package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

type fakeCourseService struct {
	created   models.CourseInput
	createErr error
	deleted   string
}

func (f *fakeCourseService) List(ctx context.Context) ([]models.Course, error) {
	return []models.Course{{ID: "c1", Name: "Physics"}}, nil
}

func (f *fakeCourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	if id != "c1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &models.CourseDetail{Course: models.Course{ID: "c1"}, Subjects: []models.Subject{}}, nil
}

func (f *fakeCourseService) Create(ctx context.Context, actor *models.SessionClaims, input models.CourseInput) (*models.Course, error) {
	f.created = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Course{ID: "c2", Name: input.Name}, nil
}

func (f *fakeCourseService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.CourseInput) (*models.Course, error) {
	return &models.Course{ID: id, Name: input.Name}, nil
}

func (f *fakeCourseService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	f.deleted = id
	return nil
}

func TestCourseHandlerPublicListIsCacheable(t *testing.T) {
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/courses", nil), nil)

	NewCourseHandler(&fakeCourseService{}).List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "Physics")
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/courses/zz", nil), gin.Params{{Key: "id", Value: "zz"}})

	NewCourseHandler(&fakeCourseService{}).Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &fakeCourseService{}
	req := httptest.NewRequest(http.MethodPost, "/admin/courses", strings.NewReader(`{"name":"Chemistry","description":"Labs"}`))
	req.Header.Set("Content-Type", "application/json")
	c, rec := newTestContext(req, nil)

	NewCourseHandler(svc).Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Chemistry", svc.created.Name)
	assert.Equal(t, "Labs", svc.created.Description)
}

func TestCourseHandlerCreateConflict(t *testing.T) {
	svc := &fakeCourseService{createErr: appErrors.Clone(appErrors.ErrConflict, "a course with this name already exists")}
	req := httptest.NewRequest(http.MethodPost, "/admin/courses", strings.NewReader(`{"name":"Chemistry"}`))
	req.Header.Set("Content-Type", "application/json")
	c, rec := newTestContext(req, nil)

	NewCourseHandler(svc).Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCourseHandlerCreateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/courses", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c, rec := newTestContext(req, nil)

	NewCourseHandler(&fakeCourseService{}).Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerDelete(t *testing.T) {
	svc := &fakeCourseService{}
	c, _ := newTestContext(httptest.NewRequest(http.MethodDelete, "/admin/courses/c1", nil), gin.Params{{Key: "id", Value: "c1"}})

	NewCourseHandler(svc).Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "c1", svc.deleted)
}

type fakeNoteService struct {
	input    models.NoteInput
	body     string
	upload   *models.Upload
	updateID string
}

func (f *fakeNoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	return &models.Note{ID: id}, nil
}

func (f *fakeNoteService) List(ctx context.Context) ([]models.Note, error) { return nil, nil }

func (f *fakeNoteService) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	return []models.Note{{ID: "n1", SubjectID: subjectID}}, nil
}

func (f *fakeNoteService) Create(ctx context.Context, actor *models.SessionClaims, input models.NoteInput, upload *models.Upload) (*models.Note, error) {
	f.input = input
	f.upload = upload
	if upload != nil {
		raw, _ := io.ReadAll(upload.Content)
		f.body = string(raw)
	}
	return &models.Note{ID: "n1", Title: input.Title}, nil
}

func (f *fakeNoteService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.NoteInput, upload *models.Upload) (*models.Note, error) {
	f.updateID = id
	f.input = input
	f.upload = upload
	return &models.Note{ID: id, Title: input.Title}, nil
}

func (f *fakeNoteService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	return nil
}

func TestNoteHandlerCreatePassesUpload(t *testing.T) {
	svc := &fakeNoteService{}
	req := multipartRequest(t, http.MethodPost, "/admin/notes", map[string]string{
		"title":      "Week 1",
		"subject_id": "4f5a0a56-8a9c-4c9e-9a4b-0c7f6d2b1e11",
	}, "week-1.pdf", "%PDF")
	c, rec := newTestContext(req, nil)

	NewNoteHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Week 1", svc.input.Title)
	require.NotNil(t, svc.upload)
	assert.Equal(t, "week-1.pdf", svc.upload.Filename)
	assert.Equal(t, "%PDF", svc.body)
}

func TestNoteHandlerUpdateWithoutFile(t *testing.T) {
	svc := &fakeNoteService{}
	req := multipartRequest(t, http.MethodPut, "/admin/notes/n1", map[string]string{
		"title":      "Renamed",
		"subject_id": "4f5a0a56-8a9c-4c9e-9a4b-0c7f6d2b1e11",
	}, "", "")
	c, rec := newTestContext(req, gin.Params{{Key: "id", Value: "n1"}})

	NewNoteHandler(svc).Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "n1", svc.updateID)
	assert.Nil(t, svc.upload)
}

func TestNoteHandlerListBySubject(t *testing.T) {
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/subjects/s1/notes", nil), gin.Params{{Key: "id", Value: "s1"}})

	NewNoteHandler(&fakeNoteService{}).ListBySubject(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var notes []models.Note
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &notes))
	assert.Equal(t, "s1", notes[0].SubjectID)
}

type fakePaperService struct {
	filter models.QuestionPaperFilter
	input  models.QuestionPaperInput
}

func (f *fakePaperService) Get(ctx context.Context, id string) (*models.QuestionPaper, error) {
	return &models.QuestionPaper{ID: id}, nil
}

func (f *fakePaperService) List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error) {
	f.filter = filter
	return []models.QuestionPaper{}, nil
}

func (f *fakePaperService) Create(ctx context.Context, actor *models.SessionClaims, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	f.input = input
	return &models.QuestionPaper{ID: "p1"}, nil
}

func (f *fakePaperService) Update(ctx context.Context, actor *models.SessionClaims, id string, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error) {
	return &models.QuestionPaper{ID: id}, nil
}

func (f *fakePaperService) Delete(ctx context.Context, actor *models.SessionClaims, id string) error {
	return nil
}

func TestQuestionPaperHandlerListParsesFilter(t *testing.T) {
	svc := &fakePaperService{}
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/question-papers?semester=3&year=2023&subject_id=s1", nil), nil)

	NewQuestionPaperHandler(svc).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Semester)
	require.NotNil(t, svc.filter.Year)
	assert.Equal(t, 3, *svc.filter.Semester)
	assert.Equal(t, 2023, *svc.filter.Year)
	assert.Equal(t, "s1", svc.filter.SubjectID)
}

func TestQuestionPaperHandlerListEmptyFilter(t *testing.T) {
	svc := &fakePaperService{}
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/question-papers?semester=", nil), nil)

	NewQuestionPaperHandler(svc).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.filter.Semester)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

func TestQuestionPaperHandlerListRejectsNonNumeric(t *testing.T) {
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/question-papers?semester=third", nil), nil)

	NewQuestionPaperHandler(&fakePaperService{}).List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Fields, "semester")
}

func TestQuestionPaperHandlerCreateBindsForm(t *testing.T) {
	svc := &fakePaperService{}
	req := multipartRequest(t, http.MethodPost, "/admin/question-papers", map[string]string{
		"title":      "Endterm",
		"year":       "2022",
		"semester":   "4",
		"exam_type":  "endterm",
		"subject_id": "4f5a0a56-8a9c-4c9e-9a4b-0c7f6d2b1e11",
	}, "endterm.pdf", "x")
	c, rec := newTestContext(req, nil)

	NewQuestionPaperHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2022, svc.input.Year)
	assert.Equal(t, 4, svc.input.Semester)
	assert.Equal(t, models.ExamEndterm, svc.input.ExamType)
}
