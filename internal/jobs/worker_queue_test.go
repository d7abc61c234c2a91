package jobs_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/worker"
)

type stubImporter struct {
	block chan struct{}
	err   error
}

func (s *stubImporter) ImportRows(_ context.Context, rows [][]string) (int, error) {
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return 0, s.err
	}
	return len(rows), nil
}

// holdImporter blocks imports whose first front is "hold" until release is
// closed.
type holdImporter struct {
	release chan struct{}
}

func (h *holdImporter) ImportRows(_ context.Context, rows [][]string) (int, error) {
	if len(rows) > 0 && rows[0][0] == "hold" {
		<-h.release
	}
	return len(rows), nil
}

func waitForState(t *testing.T, q jobs.JobQueue, id string, want models.JobState) models.ImportJob {
	t.Helper()
	var job models.ImportJob
	require.Eventually(t, func() bool {
		var ok bool
		job, ok = q.Status(id)
		return ok && job.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestWorkerQueue_ImportSucceeds(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	q := jobs.NewWorkerQueue(pool, &stubImporter{})
	id, err := q.EnqueueImport(context.Background(), [][]string{{"Q1", "A1"}, {"Q2", "A2"}})
	require.NoError(t, err)
	assert.Len(t, id, 21)

	job := waitForState(t, q, id, models.JobSucceeded)
	assert.Equal(t, 2, job.Rows)
	assert.Equal(t, 2, job.Imported)
	assert.NotNil(t, job.FinishedAt)
}

func TestWorkerQueue_ImportFails(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	q := jobs.NewWorkerQueue(pool, &stubImporter{err: stderrors.New("database is locked")})
	id, err := q.EnqueueImport(context.Background(), [][]string{{"Q", "A"}})
	require.NoError(t, err)

	job := waitForState(t, q, id, models.JobFailed)
	assert.Equal(t, "database is locked", job.Error)
}

func TestWorkerQueue_QueueFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	importer := &stubImporter{block: make(chan struct{})}
	pool.Start(context.Background())

	q := jobs.NewWorkerQueue(pool, importer)
	first, err := q.EnqueueImport(context.Background(), [][]string{{"Q", "A"}})
	require.NoError(t, err)
	waitForState(t, q, first, models.JobRunning)

	_, err = q.EnqueueImport(context.Background(), [][]string{{"Q", "A"}})
	require.NoError(t, err)

	_, err = q.EnqueueImport(context.Background(), [][]string{{"Q", "A"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueueFull))

	close(importer.block)
	pool.Stop()
}

func TestWorkerQueue_UnknownJob(t *testing.T) {
	q := jobs.NewWorkerQueue(worker.NewPool(1, 1), &stubImporter{})
	_, ok := q.Status("missing")
	assert.False(t, ok)
}

func TestWorkerQueue_EvictsOldestFinished(t *testing.T) {
	ctx := context.Background()
	pool := worker.NewPool(2, 4)
	importer := &holdImporter{release: make(chan struct{})}
	pool.Start(ctx)
	defer pool.Stop()
	defer close(importer.release)

	q := jobs.NewWorkerQueue(pool, importer)
	held, err := q.EnqueueImport(ctx, [][]string{{"hold", "A"}})
	require.NoError(t, err)
	waitForState(t, q, held, models.JobRunning)

	ids := make([]string, 300)
	for i := range ids {
		id, err := q.EnqueueImport(ctx, [][]string{{fmt.Sprintf("Q%d", i), "A"}})
		require.NoError(t, err)
		waitForState(t, q, id, models.JobSucceeded)
		ids[i] = id
	}

	_, ok := q.Status(ids[0])
	assert.False(t, ok, "oldest finished job should be evicted")
	_, ok = q.Status(ids[299])
	assert.True(t, ok, "newest job should be kept")

	job, ok := q.Status(held)
	require.True(t, ok, "running job must never be evicted")
	assert.Equal(t, models.JobRunning, job.State)

	tracked := 1
	for i, id := range ids {
		if _, ok := q.Status(id); ok {
			tracked++
			assert.GreaterOrEqual(t, i, 45, "job %d should have been evicted before newer ones", i)
		}
	}
	assert.Equal(t, 256, tracked)
}
