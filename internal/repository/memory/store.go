// Package memory is a process-local storage engine. It backs the
// STORAGE_ENGINE=memory mode and service tests; nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// NewStore returns an empty engine with all three tables.
func NewStore() repository.Store {
	return repository.Store{
		Cards:    NewCardRepository(),
		Order:    NewOrderRepository(),
		Progress: NewProgressRepository(),
	}
}

type CardRepository struct {
	mu     sync.Mutex
	nextID int64
	cards  map[int64]models.FlashCard
	now    func() time.Time
}

func NewCardRepository() *CardRepository {
	return &CardRepository{
		cards: make(map[int64]models.FlashCard),
		now:   time.Now,
	}
}

func (r *CardRepository) insertLocked(c models.NewFlashCard) int64 {
	r.nextID++
	r.cards[r.nextID] = models.FlashCard{
		ID:        r.nextID,
		Front:     c.Front,
		Back:      c.Back,
		Favorite:  c.Favorite,
		CreatedAt: r.now(),
	}
	return r.nextID
}

func (r *CardRepository) Insert(ctx context.Context, c models.NewFlashCard) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(c), nil
}

func (r *CardRepository) InsertBatch(ctx context.Context, cards []models.NewFlashCard) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, r.insertLocked(c))
	}
	return ids, nil
}

func (r *CardRepository) Get(ctx context.Context, id int64) (*models.FlashCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CardRepository) List(ctx context.Context) ([]models.FlashCard, error) {
	return r.filter(ctx, func(models.FlashCard) bool { return true })
}

func (r *CardRepository) ListFavorites(ctx context.Context) ([]models.FlashCard, error) {
	return r.filter(ctx, func(c models.FlashCard) bool { return c.Favorite })
}

func (r *CardRepository) filter(ctx context.Context, keep func(models.FlashCard) bool) ([]models.FlashCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.FlashCard{}
	for _, id := range r.sortedIDsLocked() {
		if c := r.cards[id]; keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CardRepository) sortedIDsLocked() []int64 {
	ids := make([]int64, 0, len(r.cards))
	for id := range r.cards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *CardRepository) IDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedIDsLocked(), nil
}

func (r *CardRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards), nil
}

func (r *CardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cards[id]
	delete(r.cards, id)
	return ok, nil
}

// Clear removes every card. Ids are not reused afterwards, matching SQLite
// AUTOINCREMENT.
func (r *CardRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cards)
	return nil
}

func (r *CardRepository) SetFavorite(ctx context.Context, id int64, favorite bool) (bool, error) {
	return r.update(ctx, id, func(c *models.FlashCard) { c.Favorite = favorite })
}

func (r *CardRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return r.update(ctx, id, func(c *models.FlashCard) { c.Favorite = !c.Favorite })
}

func (r *CardRepository) update(ctx context.Context, id int64, fn func(*models.FlashCard)) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	if !ok {
		return false, nil
	}
	fn(&c)
	r.cards[id] = c
	return true, nil
}

type OrderRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries []models.OrderEntry
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) InsertBatch(ctx context.Context, entries []models.OrderEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.nextID++
		e.ID = r.nextID
		r.entries = append(r.entries, e)
	}
	return nil
}

func (r *OrderRepository) OrderedCardIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	sorted := slices.Clone(r.entries)
	r.mu.Unlock()

	slices.SortStableFunc(sorted, func(a, b models.OrderEntry) int {
		return a.Position - b.Position
	})
	ids := make([]int64, 0, len(sorted))
	for _, e := range sorted {
		ids = append(ids, e.FlashCardID)
	}
	return ids, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), nil
}

func (r *OrderRepository) DeleteByCardID(ctx context.Context, cardID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.DeleteFunc(r.entries, func(e models.OrderEntry) bool {
		return e.FlashCardID == cardID
	})
	return nil
}

func (r *OrderRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}

type ProgressRepository struct {
	mu   sync.Mutex
	rows map[string]int
}

func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{rows: make(map[string]int)}
}

func (r *ProgressRepository) Get(ctx context.Context, key string) (*models.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	return &models.Progress{Key: key, CurrentIndex: idx}, nil
}

func (r *ProgressRepository) Upsert(ctx context.Context, p models.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.Key] = p.CurrentIndex
	return nil
}
