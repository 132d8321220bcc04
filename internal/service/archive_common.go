package service

import (
	"database/sql"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/database"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

const (
	kindNote          = "note"
	kindQuestionPaper = "question_paper"
	kindCascade       = "cascade"
)

// fileStore is the subset of the file store used by the domain services.
type fileStore interface {
	Store(r io.Reader, originalName string, policy storage.ExtensionPolicy) (storage.StoredFile, error)
	Delete(key string) error
}

// authGate rejects calls without a live admin session.
type authGate interface {
	RequireAuth(claims *models.SessionClaims) error
}

// NewValidator returns a validator that reports json field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requireID answers NotFound for identifiers that cannot name a row.
func requireID(id, what string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return nil
}

// lookupError maps a repository read failure to NotFound or Internal.
func lookupError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) || database.IsInvalidInput(err) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Internal(err, "failed to load "+what)
}

// writeError maps a repository write failure. Missing rows become NotFound,
// duplicate keys Conflict and dangling references NotFound on parent.
func writeError(err error, what, parent, op string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), database.IsInvalidInput(err):
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	case database.IsUniqueViolation(err):
		return appErrors.Clone(appErrors.ErrConflict, what+" already exists")
	case parent != "" && database.IsForeignKeyViolation(err):
		return appErrors.Clone(appErrors.ErrNotFound, parent+" not found")
	default:
		return appErrors.Internal(err, "failed to "+op+" "+what)
	}
}

// janitor removes stored files on a best-effort basis. Failures are logged
// and counted, never returned.
type janitor struct {
	files   fileStore
	metrics *MetricsService
	logger  *zap.Logger
}

func (j janitor) remove(kind string, keys ...string) int {
	failed := 0
	for _, key := range keys {
		if key == "" {
			continue
		}
		err := j.files.Delete(key)
		j.metrics.RecordFileOperation(kind, "delete", err)
		if err != nil {
			failed++
			j.logger.Warn("file cleanup failed", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
		}
	}
	return failed
}

func (j janitor) store(kind string, upload *models.Upload, policy storage.ExtensionPolicy) (storage.StoredFile, error) {
	if upload == nil || upload.Content == nil || strings.TrimSpace(upload.Filename) == "" {
		return storage.StoredFile{}, appErrors.FieldError("file", "file is required")
	}
	stored, err := j.files.Store(upload.Content, upload.Filename, policy)
	j.metrics.RecordFileOperation(kind, "store", err)
	if err != nil {
		return storage.StoredFile{}, err
	}
	j.metrics.RecordUpload(kind, stored.Size)
	return stored, nil
}
