package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

// memDB is an in-memory stand-in for the archive tables.
type memDB struct {
	courses  map[string]models.Course
	subjects map[string]models.Subject
	notes    map[string]models.Note
	papers   map[string]models.QuestionPaper

	noteCreateErr  error
	noteUpdateErr  error
	paperCreateErr error
}

func newMemDB() *memDB {
	return &memDB{
		courses:  map[string]models.Course{},
		subjects: map[string]models.Subject{},
		notes:    map[string]models.Note{},
		papers:   map[string]models.QuestionPaper{},
	}
}

type memCourses struct{ db *memDB }

func (r memCourses) List(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(r.db.courses))
	for _, c := range r.db.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r memCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := r.db.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r memCourses) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, c := range r.db.courses {
		if id != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r memCourses) Create(ctx context.Context, course *models.Course) error {
	course.ID = uuid.NewString()
	course.CreatedAt = time.Now()
	r.db.courses[course.ID] = *course
	return nil
}

func (r memCourses) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.db.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	r.db.courses[course.ID] = *course
	return nil
}

func (r memCourses) FileKeys(ctx context.Context, id string) ([]string, error) {
	var keys []string
	for sid, s := range r.db.subjects {
		if s.CourseID == id {
			sub, _ := memSubjects{r.db}.FileKeys(ctx, sid)
			keys = append(keys, sub...)
		}
	}
	return keys, nil
}

func (r memCourses) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := r.db.courses[id]; !ok {
		return sql.ErrNoRows
	}
	for sid, s := range r.db.subjects {
		if s.CourseID == id {
			_ = memSubjects{r.db}.DeleteCascade(ctx, sid)
		}
	}
	delete(r.db.courses, id)
	return nil
}

func (r memCourses) Count(ctx context.Context) (int, error) { return len(r.db.courses), nil }

type memSubjects struct{ db *memDB }

func (r memSubjects) List(ctx context.Context) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(r.db.subjects))
	for _, s := range r.db.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (r memSubjects) ListByCourse(ctx context.Context, courseID string) ([]models.Subject, error) {
	var out []models.Subject
	for _, s := range r.db.subjects {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Semester < out[j].Semester })
	return out, nil
}

func (r memSubjects) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	s, ok := r.db.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r memSubjects) Create(ctx context.Context, subject *models.Subject) error {
	if _, ok := r.db.courses[subject.CourseID]; !ok {
		return errors.New("foreign key violation")
	}
	subject.ID = uuid.NewString()
	subject.CreatedAt = time.Now()
	r.db.subjects[subject.ID] = *subject
	return nil
}

func (r memSubjects) Update(ctx context.Context, subject *models.Subject) error {
	if _, ok := r.db.subjects[subject.ID]; !ok {
		return sql.ErrNoRows
	}
	r.db.subjects[subject.ID] = *subject
	return nil
}

func (r memSubjects) FileKeys(ctx context.Context, id string) ([]string, error) {
	var keys []string
	for _, n := range r.db.notes {
		if n.SubjectID == id {
			keys = append(keys, n.Filename)
		}
	}
	for _, p := range r.db.papers {
		if p.SubjectID == id {
			keys = append(keys, p.Filename)
		}
	}
	return keys, nil
}

func (r memSubjects) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := r.db.subjects[id]; !ok {
		return sql.ErrNoRows
	}
	for nid, n := range r.db.notes {
		if n.SubjectID == id {
			delete(r.db.notes, nid)
		}
	}
	for pid, p := range r.db.papers {
		if p.SubjectID == id {
			delete(r.db.papers, pid)
		}
	}
	delete(r.db.subjects, id)
	return nil
}

func (r memSubjects) Count(ctx context.Context) (int, error) { return len(r.db.subjects), nil }

type memNotes struct{ db *memDB }

func (r memNotes) Create(ctx context.Context, note *models.Note) error {
	if r.db.noteCreateErr != nil {
		return r.db.noteCreateErr
	}
	note.ID = uuid.NewString()
	note.UploadedAt = time.Now()
	r.db.notes[note.ID] = *note
	return nil
}

func (r memNotes) Update(ctx context.Context, note *models.Note) error {
	if r.db.noteUpdateErr != nil {
		return r.db.noteUpdateErr
	}
	if _, ok := r.db.notes[note.ID]; !ok {
		return sql.ErrNoRows
	}
	r.db.notes[note.ID] = *note
	return nil
}

func (r memNotes) FindByID(ctx context.Context, id string) (*models.Note, error) {
	n, ok := r.db.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &n, nil
}

func (r memNotes) FindByFilename(ctx context.Context, key string) (*models.Note, error) {
	for _, n := range r.db.notes {
		if n.Filename == key {
			return &n, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memNotes) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	var out []models.Note
	for _, n := range r.db.notes {
		if n.SubjectID == subjectID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memNotes) List(ctx context.Context, limit int) ([]models.Note, error) {
	out := make([]models.Note, 0, len(r.db.notes))
	for _, n := range r.db.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotes) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.notes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.notes, id)
	return nil
}

func (r memNotes) Count(ctx context.Context) (int, error) { return len(r.db.notes), nil }

type memPapers struct{ db *memDB }

func (r memPapers) Create(ctx context.Context, paper *models.QuestionPaper) error {
	if r.db.paperCreateErr != nil {
		return r.db.paperCreateErr
	}
	paper.ID = uuid.NewString()
	paper.UploadedAt = time.Now()
	r.db.papers[paper.ID] = *paper
	return nil
}

func (r memPapers) Update(ctx context.Context, paper *models.QuestionPaper) error {
	if _, ok := r.db.papers[paper.ID]; !ok {
		return sql.ErrNoRows
	}
	r.db.papers[paper.ID] = *paper
	return nil
}

func (r memPapers) FindByID(ctx context.Context, id string) (*models.QuestionPaper, error) {
	p, ok := r.db.papers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r memPapers) FindByFilename(ctx context.Context, key string) (*models.QuestionPaper, error) {
	for _, p := range r.db.papers {
		if p.Filename == key {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memPapers) List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error) {
	var out []models.QuestionPaper
	for _, p := range r.db.papers {
		if filter.Semester != nil && p.Semester != *filter.Semester {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.SubjectID != "" && p.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Semester < out[j].Semester
	})
	return out, nil
}

func (r memPapers) ListRecent(ctx context.Context, limit int) ([]models.QuestionPaper, error) {
	out, _ := r.List(ctx, models.QuestionPaperFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPapers) Facets(ctx context.Context) (*models.PaperFacets, error) {
	return &models.PaperFacets{Years: []int{}, Semesters: []int{}}, nil
}

func (r memPapers) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.papers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.papers, id)
	return nil
}

func (r memPapers) Count(ctx context.Context) (int, error) { return len(r.db.papers), nil }

// flakyStore fails deletes while still delegating stores.
type flakyStore struct {
	*storage.LocalStorage
	deleteErr error
}

func (s flakyStore) Delete(key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.LocalStorage.Delete(key)
}

// archiveFixture wires every domain service against memDB and a temp store.
type archiveFixture struct {
	db       *memDB
	store    *storage.LocalStorage
	auth     *AuthService
	courses  *CourseService
	subjects *SubjectService
	notes    *NoteService
	papers   *QuestionPaperService
}

func newArchiveFixture(t *testing.T) *archiveFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)
	return newArchiveFixtureWithStore(t, store, store)
}

func newArchiveFixtureWithStore(t *testing.T, store *storage.LocalStorage, files fileStore) *archiveFixture {
	t.Helper()
	db := newMemDB()
	auth := NewAuthService(nil, nil, nil, nil, nil, AuthConfig{Secret: "test"})
	return &archiveFixture{
		db:       db,
		store:    store,
		auth:     auth,
		courses:  NewCourseService(memCourses{db}, memSubjects{db}, auth, files, nil, nil, nil, nil),
		subjects: NewSubjectService(memSubjects{db}, memCourses{db}, auth, files, nil, nil, nil, nil),
		notes:    NewNoteService(memNotes{db}, memSubjects{db}, auth, files, nil, nil, nil, nil),
		papers:   NewQuestionPaperService(memPapers{db}, memSubjects{db}, auth, files, nil, nil, nil, nil),
	}
}

func testActor() *models.SessionClaims {
	return &models.SessionClaims{AdminID: "admin-1", Username: "admin", RegisteredClaims: jwt.RegisteredClaims{ID: "session-1"}}
}

func upload(name, body string) *models.Upload {
	return &models.Upload{Filename: name, Content: strings.NewReader(body)}
}

func readStored(t *testing.T, store *storage.LocalStorage, key string) string {
	t.Helper()
	f, err := store.Open(key)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(body)
}

func (f *archiveFixture) seedSubject(t *testing.T, courseName string, semester int) (*models.Course, *models.Subject) {
	t.Helper()
	ctx := context.Background()
	course, err := f.courses.Create(ctx, testActor(), models.CourseInput{Name: courseName})
	require.NoError(t, err)
	subject, err := f.subjects.Create(ctx, testActor(), models.SubjectInput{Name: "Subject " + courseName, CourseID: course.ID, Semester: semester})
	require.NoError(t, err)
	return course, subject
}
