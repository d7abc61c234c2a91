package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// CardRepository owns flashcard rows. List order is natural storage order
// (ascending id) and is stable across calls.
type CardRepository interface {
	Insert(ctx context.Context, card models.NewFlashCard) (int64, error)
	// InsertBatch stores all cards atomically and returns their ids in input order.
	InsertBatch(ctx context.Context, cards []models.NewFlashCard) ([]int64, error)
	Get(ctx context.Context, id int64) (*models.FlashCard, error)
	List(ctx context.Context) ([]models.FlashCard, error)
	ListFavorites(ctx context.Context) ([]models.FlashCard, error)
	IDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) error
	// SetFavorite reports whether the card exists.
	SetFavorite(ctx context.Context, id int64, favorite bool) (bool, error)
	// ToggleFavorite flips the flag and reports whether the card exists.
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
}

// OrderRepository stores the shuffled deck order.
type OrderRepository interface {
	InsertBatch(ctx context.Context, entries []models.OrderEntry) error
	// OrderedCardIDs returns card ids sorted by ascending position.
	OrderedCardIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
	DeleteByCardID(ctx context.Context, cardID int64) error
	Clear(ctx context.Context) error
}

// ProgressRepository stores key/index progress rows.
type ProgressRepository interface {
	// Get returns nil when no row exists for key.
	Get(ctx context.Context, key string) (*models.Progress, error)
	Upsert(ctx context.Context, p models.Progress) error
}

// Store bundles the three tables of one storage engine.
type Store struct {
	Cards    CardRepository
	Order    OrderRepository
	Progress ProgressRepository
}
