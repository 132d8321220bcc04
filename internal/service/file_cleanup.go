package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/jobs"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

// FileCleanup decorates the file store so that failed deletions are retried
// on a background queue. The first failure is still returned to the caller.
type FileCleanup struct {
	store   fileStore
	queue   *jobs.Queue[string]
	metrics *MetricsService
	logger  *zap.Logger
}

// NewFileCleanup constructs the decorator. Call Start before use.
func NewFileCleanup(store fileStore, metrics *MetricsService, cfg jobs.QueueConfig) *FileCleanup {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	f := &FileCleanup{store: store, metrics: metrics, logger: cfg.Logger}
	f.queue = jobs.NewQueue("file-cleanup", f.retryDelete, cfg)
	return f
}

// Start launches the retry workers.
func (f *FileCleanup) Start(ctx context.Context) { f.queue.Start(ctx) }

// Stop waits for the workers to exit.
func (f *FileCleanup) Stop() { f.queue.Stop() }

// Store passes through to the underlying store.
func (f *FileCleanup) Store(r io.Reader, originalName string, policy storage.ExtensionPolicy) (storage.StoredFile, error) {
	return f.store.Store(r, originalName, policy)
}

// Delete removes key, scheduling a retry when the store fails.
func (f *FileCleanup) Delete(key string) error {
	err := f.store.Delete(key)
	if err == nil || errors.Is(err, appErrors.ErrValidation) {
		return err
	}
	if qerr := f.queue.Enqueue(jobs.Job[string]{ID: uuid.NewString(), Payload: key}); qerr != nil {
		f.logger.Warn("file cleanup retry not scheduled", zap.String("key", key), zap.Error(qerr))
	}
	return err
}

func (f *FileCleanup) retryDelete(ctx context.Context, job jobs.Job[string]) error {
	err := f.store.Delete(job.Payload)
	f.metrics.RecordFileOperation("retry", "delete", err)
	if err == nil {
		f.logger.Info("file cleanup retry succeeded", zap.String("key", job.Payload), zap.Int("attempt", job.Attempt+1))
	}
	return err
}
