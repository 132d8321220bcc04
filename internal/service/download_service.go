package service

import (
	"context"
	"database/sql"
	"errors"
	"mime"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

type noteByFilename interface {
	FindByFilename(ctx context.Context, key string) (*models.Note, error)
}

type paperByFilename interface {
	FindByFilename(ctx context.Context, key string) (*models.QuestionPaper, error)
}

type fileOpener interface {
	Open(key string) (*os.File, error)
}

// DownloadService resolves storage keys to streamable files.
type DownloadService struct {
	notes  noteByFilename
	papers paperByFilename
	files  fileOpener
	logger *zap.Logger
}

// NewDownloadService constructs the service.
func NewDownloadService(notes noteByFilename, papers paperByFilename, files fileOpener, logger *zap.Logger) *DownloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadService{notes: notes, papers: papers, files: files, logger: logger}
}

// Download opens the file stored under key along with its original name.
// Keys not referenced by a note or paper are reported as missing.
func (s *DownloadService) Download(ctx context.Context, key string) (*dto.Download, error) {
	if !storage.ValidKey(key) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}

	original, err := s.originalName(ctx, key)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Open(key)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.logger.Warn("stored file missing", zap.String("key", key))
		}
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, appErrors.Storage(err, "failed to read file")
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &dto.Download{
		Content:          file,
		OriginalFilename: original,
		Size:             info.Size(),
		ContentType:      contentType,
		ModifiedAt:       info.ModTime(),
	}, nil
}

func (s *DownloadService) originalName(ctx context.Context, key string) (string, error) {
	note, err := s.notes.FindByFilename(ctx, key)
	if err == nil {
		return note.OriginalFilename, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Internal(err, "failed to resolve file")
	}

	paper, err := s.papers.FindByFilename(ctx, key)
	if err == nil {
		return paper.OriginalFilename, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Internal(err, "failed to resolve file")
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, "file not found")
}
