package services

import (
	"context"
	"fmt"

	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// PositionTracker persists the browsing index. Values are stored as given;
// callers keep them in range.
type PositionTracker struct {
	repo repository.ProgressRepository
}

func NewPositionTracker(repo repository.ProgressRepository) *PositionTracker {
	return &PositionTracker{repo: repo}
}

func (p *PositionTracker) Save(ctx context.Context, index int) error {
	err := p.repo.Upsert(ctx, models.Progress{Key: models.CurrentPositionKey, CurrentIndex: index})
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

// Current returns the stored index, or 0 if none was saved.
func (p *PositionTracker) Current(ctx context.Context) (int, error) {
	row, err := p.repo.Get(ctx, models.CurrentPositionKey)
	if err != nil {
		return 0, fmt.Errorf("load position: %w", err)
	}
	if row == nil {
		return 0, nil
	}
	return row.CurrentIndex, nil
}

func (p *PositionTracker) Reset(ctx context.Context) error {
	return p.Save(ctx, 0)
}
