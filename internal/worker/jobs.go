package worker

import (
	"context"
)

// ImportDeckJob stores CSV rows in the background. Hooks, when set, observe
// the job's lifecycle.
type ImportDeckJob struct {
	ID       string
	Importer RowImporter
	Rows     [][]string

	OnStart  func(id string)
	OnFinish func(id string, imported int, err error)
}

func (j *ImportDeckJob) Name() string { return "import_deck" }

func (j *ImportDeckJob) Run(ctx context.Context) error {
	if j.OnStart != nil {
		j.OnStart(j.ID)
	}
	n, err := j.Importer.ImportRows(ctx, j.Rows)
	if j.OnFinish != nil {
		j.OnFinish(j.ID, n, err)
	}
	return err
}
