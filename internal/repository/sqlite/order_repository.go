package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository implementation
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) InsertBatch(ctx context.Context, entries []models.OrderEntry) error {
	log := logger.FromContext(ctx).WithPrefix("order_repo")
	log.Debug("batch inserting %d order entries", len(entries))

	if len(entries) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO card_order (flashcard_id, position) VALUES (?, ?)`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.FlashCardID, e.Position); err != nil {
				log.Error("failed to insert order entry flashcard_id=%d position=%d: %v", e.FlashCardID, e.Position, err)
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) OrderedCardIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("order_repo")

	// id breaks ties so that duplicate positions still read back stably.
	query, args, err := sqlBuilder.Select("flashcard_id").
		From("card_order").
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query card order: %v", err)
		return nil, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		log.Error("failed to scan card order: %v", err)
		return nil, err
	}
	log.Debug("found %d order entries", len(ids))
	return ids, nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.db, "card_order")
	if err != nil {
		logger.FromContext(ctx).WithPrefix("order_repo").Error("failed to count order entries: %v", err)
	}
	return n, err
}

func (r *orderRepository) DeleteByCardID(ctx context.Context, cardID int64) error {
	log := logger.FromContext(ctx).WithPrefix("order_repo")
	log.Debug("deleting order entries: flashcard_id=%d", cardID)

	query, args, err := sqlBuilder.Delete("card_order").Where(squirrel.Eq{"flashcard_id": cardID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete order entries: %v", err)
		return err
	}
	return nil
}

func (r *orderRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("order_repo")
	log.Debug("clearing card order")

	if _, err := r.db.ExecContext(ctx, `DELETE FROM card_order`); err != nil {
		log.Error("failed to clear card order: %v", err)
		return err
	}
	return nil
}
