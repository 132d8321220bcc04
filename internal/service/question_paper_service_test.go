package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestQuestionPaperServiceRejectsPresentationFiles(t *testing.T) {
	f := newArchiveFixture(t)
	_, subject := f.seedSubject(t, "Maths", 1)

	_, err := f.papers.Create(context.Background(), testActor(), validPaperInput(subject.ID), upload("slides.pptx", "pk"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFileType))
	assert.Empty(t, f.db.papers)
	keys, _ := f.store.Keys()
	assert.Empty(t, keys)
}

func TestQuestionPaperServiceValidatesInput(t *testing.T) {
	f := newArchiveFixture(t)
	_, subject := f.seedSubject(t, "Maths", 1)

	input := validPaperInput(subject.ID)
	input.Year = 1999
	input.ExamType = "final"
	_, err := f.papers.Create(context.Background(), testActor(), input, upload("exam.pdf", "x"))
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, "year")
	assert.Contains(t, fields, "exam_type")
}

func TestQuestionPaperServiceNormalisesExamType(t *testing.T) {
	f := newArchiveFixture(t)
	_, subject := f.seedSubject(t, "Maths", 1)

	input := validPaperInput(subject.ID)
	input.ExamType = " EndTerm "
	paper, err := f.papers.Create(context.Background(), testActor(), input, upload("exam.pdf", "x"))
	require.NoError(t, err)
	assert.Equal(t, models.ExamEndterm, paper.ExamType)
}

func TestQuestionPaperServiceListFiltersAndOrders(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)

	for _, p := range []struct{ year, semester int }{{2021, 3}, {2023, 3}, {2022, 1}, {2022, 3}} {
		input := validPaperInput(subject.ID)
		input.Year = p.year
		input.Semester = p.semester
		_, err := f.papers.Create(ctx, testActor(), input, upload("exam.pdf", "x"))
		require.NoError(t, err)
	}

	papers, err := f.papers.List(ctx, models.QuestionPaperFilter{Semester: intPtr(3)})
	require.NoError(t, err)
	require.Len(t, papers, 3)
	years := []int{papers[0].Year, papers[1].Year, papers[2].Year}
	assert.Equal(t, []int{2023, 2022, 2021}, years)
	for _, p := range papers {
		assert.Equal(t, 3, p.Semester)
	}
}

func TestQuestionPaperServiceRejectsInvalidFilter(t *testing.T) {
	f := newArchiveFixture(t)

	_, err := f.papers.List(context.Background(), models.QuestionPaperFilter{Semester: intPtr(11), Year: intPtr(1900), SubjectID: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "semester")
	assert.Contains(t, appErr.Fields, "year")
	assert.Equal(t, "must be a valid identifier", appErr.Fields["subject_id"])
}

func TestQuestionPaperServiceZeroFilterMeansAny(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Physics", 2)
	for _, year := range []int{2020, 2024} {
		input := validPaperInput(subject.ID)
		input.Year = year
		_, err := f.papers.Create(ctx, testActor(), input, upload("exam.pdf", "x"))
		require.NoError(t, err)
	}

	papers, err := f.papers.List(ctx, models.QuestionPaperFilter{Semester: intPtr(0), Year: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}

func TestQuestionPaperServiceUpdateReplacesFile(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)
	paper, err := f.papers.Create(ctx, testActor(), validPaperInput(subject.ID), upload("exam.pdf", "v1"))
	require.NoError(t, err)

	input := validPaperInput(subject.ID)
	input.Title = "Midterm (corrected)"
	updated, err := f.papers.Update(ctx, testActor(), paper.ID, input, upload("exam.docx", "version two"))
	require.NoError(t, err)

	assert.False(t, f.store.Exists(paper.Filename))
	assert.Equal(t, "version two", readStored(t, f.store, updated.Filename))
	assert.Equal(t, int64(len("version two")), updated.FileSize)
	assert.Equal(t, "Midterm (corrected)", f.db.papers[paper.ID].Title)
}

func TestQuestionPaperServiceCreateFailureRemovesFile(t *testing.T) {
	f := newArchiveFixture(t)
	_, subject := f.seedSubject(t, "Maths", 1)
	f.db.paperCreateErr = errors.New("insert failed")

	_, err := f.papers.Create(context.Background(), testActor(), validPaperInput(subject.ID), upload("exam.pdf", "x"))
	require.Error(t, err)
	keys, _ := f.store.Keys()
	assert.Empty(t, keys)
}

func TestQuestionPaperServiceDelete(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)
	paper, err := f.papers.Create(ctx, testActor(), validPaperInput(subject.ID), upload("exam.pdf", "x"))
	require.NoError(t, err)

	err = f.papers.Delete(ctx, nil, paper.ID)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.True(t, f.store.Exists(paper.Filename))

	require.NoError(t, f.papers.Delete(ctx, testActor(), paper.ID))
	assert.Empty(t, f.db.papers)
	assert.False(t, f.store.Exists(paper.Filename))
}
