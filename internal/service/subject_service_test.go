package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

func TestSubjectServiceCreateUnknownCourse(t *testing.T) {
	f := newArchiveFixture(t)

	_, err := f.subjects.Create(context.Background(), testActor(), models.SubjectInput{Name: "Algebra", CourseID: uuid.NewString(), Semester: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, f.db.subjects)
}

func TestSubjectServiceCreateValidatesSemester(t *testing.T) {
	f := newArchiveFixture(t)
	course, err := f.courses.Create(context.Background(), testActor(), models.CourseInput{Name: "Maths"})
	require.NoError(t, err)

	for _, semester := range []int{0, 11} {
		_, err := f.subjects.Create(context.Background(), testActor(), models.SubjectInput{Name: "Algebra", CourseID: course.ID, Semester: semester})
		require.Error(t, err)
		assert.Contains(t, appErrors.FromError(err).Fields, "semester")
	}
	assert.Empty(t, f.db.subjects)
}

func TestSubjectServiceCreateAndMove(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 3)
	target, err := f.courses.Create(ctx, testActor(), models.CourseInput{Name: "Statistics"})
	require.NoError(t, err)

	assert.Equal(t, "Maths", subject.CourseName)

	moved, err := f.subjects.Update(ctx, testActor(), subject.ID, models.SubjectInput{Name: "Probability", CourseID: target.ID, Semester: 4})
	require.NoError(t, err)
	assert.Equal(t, target.ID, moved.CourseID)
	assert.Equal(t, "Statistics", moved.CourseName)
	assert.Equal(t, 4, f.db.subjects[subject.ID].Semester)
}

func TestSubjectServiceListByCourse(t *testing.T) {
	f := newArchiveFixture(t)
	course, _ := f.seedSubject(t, "Maths", 2)

	subjects, err := f.subjects.ListByCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)

	_, err = f.subjects.ListByCourse(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSubjectServiceDeleteCascades(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	course, subject := f.seedSubject(t, "Maths", 1)
	_, err := f.notes.Create(ctx, testActor(), models.NoteInput{Title: "Limits", SubjectID: subject.ID}, upload("limits.pdf", "l"))
	require.NoError(t, err)
	_, err = f.papers.Create(ctx, testActor(), validPaperInput(subject.ID), upload("exam.docx", "e"))
	require.NoError(t, err)

	require.NoError(t, f.subjects.Delete(ctx, testActor(), subject.ID))

	assert.Contains(t, f.db.courses, course.ID)
	assert.Empty(t, f.db.subjects)
	assert.Empty(t, f.db.notes)
	assert.Empty(t, f.db.papers)
	keys, err := f.store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
