package services

import (
	"context"
	"fmt"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/shuffle"
)

// OrderStore maintains the persisted random permutation of card ids.
type OrderStore struct {
	repo repository.OrderRepository
	src  shuffle.Source
}

// NewOrderStore creates an OrderStore. A nil src uses shuffle.Default.
func NewOrderStore(repo repository.OrderRepository, src shuffle.Source) *OrderStore {
	if src == nil {
		src = shuffle.Default
	}
	return &OrderStore{repo: repo, src: src}
}

// Regenerate replaces every entry with a fresh permutation of ids.
func (o *OrderStore) Regenerate(ctx context.Context, ids []int64) error {
	log := logger.FromContext(ctx).WithPrefix("order")
	if err := o.repo.Clear(ctx); err != nil {
		log.Error("failed to clear order: %v", err)
		return fmt.Errorf("clear order: %w", err)
	}
	if len(ids) == 0 {
		log.Debug("no cards, order left empty")
		return nil
	}

	shuffled := shuffle.SliceWith(o.src, ids)
	entries := make([]models.OrderEntry, len(shuffled))
	for i, id := range shuffled {
		entries[i] = models.OrderEntry{FlashCardID: id, Position: i}
	}
	if err := o.repo.InsertBatch(ctx, entries); err != nil {
		log.Error("failed to insert %d order entries: %v", len(entries), err)
		return fmt.Errorf("insert order: %w", err)
	}
	log.Debug("regenerated order over %d cards", len(entries))
	return nil
}

func (o *OrderStore) OrderedIDs(ctx context.Context) ([]int64, error) {
	ids, err := o.repo.OrderedCardIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return ids, nil
}

// IsValid reports whether the stored order covers exactly liveCount cards.
// An empty deck never has a valid order.
func (o *OrderStore) IsValid(ctx context.Context, liveCount int) (bool, error) {
	n, err := o.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count order: %w", err)
	}
	return liveCount > 0 && n == liveCount, nil
}

func (o *OrderStore) RemoveReferencesTo(ctx context.Context, cardID int64) error {
	if err := o.repo.DeleteByCardID(ctx, cardID); err != nil {
		return fmt.Errorf("remove order entries for card %d: %w", cardID, err)
	}
	return nil
}
