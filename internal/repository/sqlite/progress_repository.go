package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, key string) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	query, args, err := sqlBuilder.Select("key", "current_index").
		From("user_progress").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Progress
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.Key, &p.CurrentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress stored: key=%s", key)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &p, nil
}

// Upsert writes the row for p.Key in one statement, so readers never observe
// a missing row between a delete and an insert.
func (r *progressRepository) Upsert(ctx context.Context, p models.Progress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: key=%s, index=%d", p.Key, p.CurrentIndex)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_progress (key, current_index) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET current_index = excluded.current_index
`, p.Key, p.CurrentIndex)
	if err != nil {
		log.Error("failed to save progress: %v", err)
	}
	return err
}
