package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	done := make(chan Job[string], 1)
	q := NewQueue("test", func(ctx context.Context, job Job[string]) error {
		if calls.Add(1) < 3 {
			return errors.New("busy")
		}
		done <- job
		return nil
	}, QueueConfig{RetryDelay: time.Millisecond, MaxRetries: 5})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "1", Payload: "a.pdf"}))

	select {
	case job := <-done:
		assert.Equal(t, "a.pdf", job.Payload)
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not complete")
	}
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue("test", func(ctx context.Context, job Job[int]) error {
		calls.Add(1)
		return errors.New("always")
	}, QueueConfig{RetryDelay: time.Millisecond, MaxRetries: 2})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job[int]{ID: "1"}))
	assert.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(3), calls.Load())
}

func TestQueueEnqueueWhenStopped(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job[int]) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job[int]{ID: "1"})
	assert.ErrorIs(t, err, ErrStopped)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job[int]{ID: "2"}), ErrStopped)
}
