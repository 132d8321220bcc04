package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

func TestDownloadServiceStreamsNote(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)
	note, err := f.notes.Create(ctx, testActor(), models.NoteInput{Title: "Limits", SubjectID: subject.ID}, upload("Limits & Series.pdf", "%PDF-1.4"))
	require.NoError(t, err)

	svc := NewDownloadService(memNotes{f.db}, memPapers{f.db}, f.store, nil)
	download, err := svc.Download(ctx, note.Filename)
	require.NoError(t, err)
	defer download.Content.Close()

	body, err := io.ReadAll(download.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, note.OriginalFilename, download.OriginalFilename)
	assert.Equal(t, int64(8), download.Size)
	assert.Equal(t, "application/pdf", download.ContentType)
}

func TestDownloadServiceResolvesPaper(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)
	paper, err := f.papers.Create(ctx, testActor(), validPaperInput(subject.ID), upload("endterm.docx", "doc"))
	require.NoError(t, err)

	svc := NewDownloadService(memNotes{f.db}, memPapers{f.db}, f.store, nil)
	download, err := svc.Download(ctx, paper.Filename)
	require.NoError(t, err)
	defer download.Content.Close()
	assert.Equal(t, "endterm.docx", download.OriginalFilename)
}

func TestDownloadServiceUnknownKeys(t *testing.T) {
	f := newArchiveFixture(t)
	svc := NewDownloadService(memNotes{f.db}, memPapers{f.db}, f.store, nil)

	for _, key := range []string{"", "../etc/passwd", "0123456789abcdef0123456789abcdef.pdf"} {
		_, err := svc.Download(context.Background(), key)
		assert.True(t, errors.Is(err, appErrors.ErrNotFound), key)
	}
}

func TestDownloadServiceMissingFile(t *testing.T) {
	f := newArchiveFixture(t)
	ctx := context.Background()
	_, subject := f.seedSubject(t, "Maths", 1)
	note, err := f.notes.Create(ctx, testActor(), models.NoteInput{Title: "Gone", SubjectID: subject.ID}, upload("gone.txt", "x"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.store.Dir(), note.Filename)))

	svc := NewDownloadService(memNotes{f.db}, memPapers{f.db}, f.store, nil)
	_, err = svc.Download(ctx, note.Filename)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
