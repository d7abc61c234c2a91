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

var cardColumns = []string{"id", "front", "back", "favorite", "created_at"}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.NewFlashCard) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting flashcard: favorite=%t", c.Favorite)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO flashcards (front, back, favorite)
VALUES (?, ?, ?)
`, c.Front, c.Back, c.Favorite)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get flashcard id: %v", err)
		return 0, err
	}
	log.Debug("flashcard inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.NewFlashCard) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("batch inserting %d flashcards", len(cards))

	ids := make([]int64, 0, len(cards))
	if len(cards) == 0 {
		return ids, nil
	}

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO flashcards (front, back, favorite)
VALUES (?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for i, c := range cards {
			res, err := stmt.ExecContext(ctx, c.Front, c.Back, c.Favorite)
			if err != nil {
				log.Error("failed to insert flashcard #%d: %v", i, err)
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("batch insert completed, %d flashcards inserted", len(ids))
	return ids, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.FlashCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting flashcard: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).
		From("flashcards").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var c models.FlashCard
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Front, &c.Back, &c.Favorite, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context) ([]models.FlashCard, error) {
	return r.list(ctx, nil)
}

func (r *cardRepository) ListFavorites(ctx context.Context) ([]models.FlashCard, error) {
	return r.list(ctx, squirrel.Eq{"favorite": true})
}

func (r *cardRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.FlashCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query := sqlBuilder.Select(cardColumns...).From("flashcards").OrderBy("id ASC")
	if where != nil {
		query = query.Where(where)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	log.Debug("listing flashcards: %s", sqlStr)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.FlashCard{}
	for rows.Next() {
		var c models.FlashCard
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &c.Favorite, &c.CreatedAt); err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) IDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := sqlBuilder.Select("id").From("flashcards").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcard ids: %v", err)
		return nil, err
	}
	return scanIDs(rows)
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.db, "flashcards")
	if err != nil {
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to count flashcards: %v", err)
	}
	return n, err
}

func (r *cardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting flashcard: id=%d", id)

	query, args, err := sqlBuilder.Delete("flashcards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *cardRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("clearing flashcards")

	if _, err := r.db.ExecContext(ctx, `DELETE FROM flashcards`); err != nil {
		log.Error("failed to clear flashcards: %v", err)
		return err
	}
	return nil
}

func (r *cardRepository) SetFavorite(ctx context.Context, id int64, favorite bool) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("setting favorite: id=%d, favorite=%t", id, favorite)

	query, args, err := sqlBuilder.Update("flashcards").
		Set("favorite", favorite).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	return r.update(ctx, query, args...)
}

func (r *cardRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("toggling favorite: id=%d", id)

	query, args, err := sqlBuilder.Update("flashcards").
		Set("favorite", squirrel.Expr("NOT favorite")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	return r.update(ctx, query, args...)
}

func (r *cardRepository) update(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to update flashcard: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
