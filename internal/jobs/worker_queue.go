package jobs

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/worker"
)

// maxTracked bounds the status table; the oldest finished jobs are evicted
// first.
const maxTracked = 256

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	importPool *worker.Pool
	importer   worker.RowImporter
	now        func() time.Time

	mu    sync.Mutex
	jobs  map[string]*models.ImportJob
	order []string
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, importer worker.RowImporter) *WorkerQueue {
	return &WorkerQueue{
		importPool: importPool,
		importer:   importer,
		now:        time.Now,
		jobs:       make(map[string]*models.ImportJob),
	}
}

func (q *WorkerQueue) EnqueueImport(ctx context.Context, rows [][]string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("jobs")

	id, err := gonanoid.New()
	if err != nil {
		log.Error("failed to generate job id: %v", err)
		return "", errors.NewInternalError(err)
	}

	q.track(&models.ImportJob{
		ID:       id,
		State:    models.JobQueued,
		Rows:     len(rows),
		QueuedAt: q.now(),
	})

	err = q.importPool.TrySubmit(&worker.ImportDeckJob{
		ID:       id,
		Importer: q.importer,
		Rows:     rows,
		OnStart:  q.markRunning,
		OnFinish: q.markFinished,
	})
	if err != nil {
		q.forget(id)
		return "", errors.NewQueueFullError("import")
	}

	log.Info("queued import job %s with %d rows", id, len(rows))
	return id, nil
}

// Status returns a snapshot of the job.
func (q *WorkerQueue) Status(id string) (models.ImportJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return models.ImportJob{}, false
	}
	return *job, true
}

func (q *WorkerQueue) track(job *models.ImportJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	q.order = append(q.order, job.ID)
	q.evictLocked()
}

func (q *WorkerQueue) evictLocked() {
	for i := 0; len(q.jobs) > maxTracked && i < len(q.order); {
		id := q.order[i]
		job, ok := q.jobs[id]
		if ok && (job.State == models.JobQueued || job.State == models.JobRunning) {
			i++
			continue
		}
		delete(q.jobs, id)
		q.order = append(q.order[:i], q.order[i+1:]...)
	}
}

func (q *WorkerQueue) forget(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.jobs, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

func (q *WorkerQueue) markRunning(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job, ok := q.jobs[id]; ok {
		job.State = models.JobRunning
	}
}

func (q *WorkerQueue) markFinished(id string, imported int, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return
	}
	finished := q.now()
	job.FinishedAt = &finished
	job.Imported = imported
	if err != nil {
		job.State = models.JobFailed
		job.Error = err.Error()
		return
	}
	job.State = models.JobSucceeded
}
