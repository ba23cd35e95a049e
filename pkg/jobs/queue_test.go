package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	handled := make(chan Job, 2)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		handled <- job
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "noop"}))
	require.NoError(t, q.Enqueue(Job{ID: "b", Type: "noop"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case job := <-handled:
			got[job.ID] = true
			require.False(t, job.Enqueued.IsZero())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	require.True(t, got["a"])
	require.True(t, got["b"])
}

func TestQueueRetriesFailedJob(t *testing.T) {
	var mu sync.Mutex
	var attempts []int
	done := make(chan struct{})
	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		attempts = append(attempts, job.Attempt)
		mu.Unlock()
		if job.Attempt == 0 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "r", Type: "flaky"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1}, attempts)
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{ID: "x"}))
}
