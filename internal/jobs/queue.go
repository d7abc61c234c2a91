package jobs

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueImport schedules rows for import and returns the job id.
	EnqueueImport(ctx context.Context, rows [][]string) (string, error)
	Status(id string) (models.ImportJob, bool)
}
