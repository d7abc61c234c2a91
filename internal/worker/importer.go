package worker

import "context"

// RowImporter stores parsed CSV rows as cards.
// Declared here so the worker package does not import services.
type RowImporter interface {
	ImportRows(ctx context.Context, rows [][]string) (int, error)
}
