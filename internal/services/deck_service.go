package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vytor/flashdeck/internal/cardfmt"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/shuffle"
)

// DeckService keeps cards, their shuffled order and the browsing position
// consistent. Every card-set mutation regenerates the order and resets the
// position to 0.
type DeckService interface {
	OrderedDeck(ctx context.Context) ([]models.FormattedFlashCard, error)
	NaturalDeck(ctx context.Context) ([]models.FormattedFlashCard, error)
	InitializeOrderIfNeeded(ctx context.Context) error
	RegenerateRandomOrder(ctx context.Context) error

	Add(ctx context.Context, card models.NewFlashCard) (int64, error)
	AddMany(ctx context.Context, cards []models.NewFlashCard) ([]int64, error)
	// Replace swaps every card for cards in one locked operation.
	Replace(ctx context.Context, cards []models.NewFlashCard) ([]int64, error)
	// Delete reports whether the card existed. Deleting a missing id changes
	// nothing.
	Delete(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)

	Advance(ctx context.Context, delta, deckLength int) (int, error)
	// Step is Advance over the live card count, read under the same lock.
	Step(ctx context.Context, delta int) (int, error)
	SavePosition(ctx context.Context, index int) error
	CurrentPosition(ctx context.Context) (int, error)
	Session(ctx context.Context) (*models.DeckSession, error)

	Favorites(ctx context.Context) ([]models.FormattedFlashCard, error)
	ToggleFavorite(ctx context.Context, id int64) (*models.FormattedFlashCard, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) (*models.FormattedFlashCard, error)
}

type deckService struct {
	// mu serializes whole operations so a request never observes a
	// half-regenerated order.
	mu       sync.Mutex
	cards    repository.CardRepository
	order    *OrderStore
	position *PositionTracker
}

// NewDeckService wires a deck over store. A nil src shuffles with
// shuffle.Default.
func NewDeckService(store repository.Store, src shuffle.Source) DeckService {
	return &deckService{
		cards:    store.Cards,
		order:    NewOrderStore(store.Order, src),
		position: NewPositionTracker(store.Progress),
	}
}

func deckLog(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithPrefix("deck")
}

func (s *deckService) OrderedDeck(ctx context.Context) ([]models.FormattedFlashCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderedDeck(ctx)
}

func (s *deckService) orderedDeck(ctx context.Context) ([]models.FormattedFlashCard, error) {
	log := deckLog(ctx)

	ids, err := s.order.OrderedIDs(ctx)
	if err != nil {
		log.Error("failed to load order: %v", err)
		return nil, err
	}
	all, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, fmt.Errorf("list cards: %w", err)
	}
	if len(ids) == 0 {
		log.Debug("order empty, using natural order for %d cards", len(all))
		return cardfmt.FormatAll(all), nil
	}

	byID := make(map[int64]models.FlashCard, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	ordered := make([]models.FlashCard, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	if dropped := len(ids) - len(ordered); dropped > 0 {
		log.Debug("dropped %d stale order entries", dropped)
	}
	return cardfmt.FormatAll(ordered), nil
}

func (s *deckService) NaturalDeck(ctx context.Context) ([]models.FormattedFlashCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.cards.List(ctx)
	if err != nil {
		deckLog(ctx).Error("failed to list cards: %v", err)
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cardfmt.FormatAll(all), nil
}

func (s *deckService) InitializeOrderIfNeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeOrderIfNeeded(ctx)
}

func (s *deckService) initializeOrderIfNeeded(ctx context.Context) error {
	n, err := s.cards.Count(ctx)
	if err != nil {
		return fmt.Errorf("count cards: %w", err)
	}
	valid, err := s.order.IsValid(ctx, n)
	if err != nil {
		return err
	}
	if valid {
		return nil
	}
	deckLog(ctx).Info("order out of date for %d cards, regenerating", n)
	return s.regenerate(ctx)
}

func (s *deckService) RegenerateRandomOrder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerate(ctx)
}

func (s *deckService) regenerate(ctx context.Context) error {
	log := deckLog(ctx)

	ids, err := s.cards.IDs(ctx)
	if err != nil {
		log.Error("failed to load card ids: %v", err)
		return fmt.Errorf("load card ids: %w", err)
	}
	if err := s.order.Regenerate(ctx, ids); err != nil {
		return err
	}
	if err := s.position.Reset(ctx); err != nil {
		log.Error("failed to reset position: %v", err)
		return err
	}
	log.Debug("order regenerated over %d cards, position reset", len(ids))
	return nil
}

func validateCard(c models.NewFlashCard) (models.NewFlashCard, error) {
	c.Front = strings.TrimSpace(c.Front)
	c.Back = strings.TrimSpace(c.Back)
	if c.Front == "" {
		return c, errors.NewValidationError("front", "cannot be empty")
	}
	if c.Back == "" {
		return c, errors.NewValidationError("back", "cannot be empty")
	}
	return c, nil
}

func (s *deckService) Add(ctx context.Context, card models.NewFlashCard) (int64, error) {
	card, err := validateCard(card)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx)
	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, fmt.Errorf("insert card: %w", err)
	}
	log.Debug("added card %d", id)
	if err := s.regenerate(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *deckService) AddMany(ctx context.Context, cards []models.NewFlashCard) ([]int64, error) {
	if len(cards) == 0 {
		return []int64{}, nil
	}
	clean := make([]models.NewFlashCard, len(cards))
	for i, c := range cards {
		v, err := validateCard(c)
		if err != nil {
			return nil, err
		}
		clean[i] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx)
	ids, err := s.cards.InsertBatch(ctx, clean)
	if err != nil {
		log.Error("failed to insert %d cards: %v", len(clean), err)
		return nil, fmt.Errorf("insert cards: %w", err)
	}
	log.Info("added %d cards", len(ids))
	if err := s.regenerate(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// Replace clears the deck and stores cards. The two storage steps are not one
// transaction: a failed insert leaves the deck empty, with order and position
// regenerated over whatever remains.
func (s *deckService) Replace(ctx context.Context, cards []models.NewFlashCard) ([]int64, error) {
	clean := make([]models.NewFlashCard, len(cards))
	for i, c := range cards {
		v, err := validateCard(c)
		if err != nil {
			return nil, err
		}
		clean[i] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx)
	if err := s.cards.Clear(ctx); err != nil {
		log.Error("failed to clear cards: %v", err)
		return nil, fmt.Errorf("clear cards: %w", err)
	}
	ids := []int64{}
	if len(clean) > 0 {
		inserted, err := s.cards.InsertBatch(ctx, clean)
		if err != nil {
			log.Error("failed to insert %d cards: %v", len(clean), err)
			if rerr := s.regenerate(ctx); rerr != nil {
				log.Error("failed to regenerate after insert failure: %v", rerr)
			}
			return nil, fmt.Errorf("insert cards: %w", err)
		}
		ids = inserted
	}
	log.Info("deck replaced with %d cards", len(ids))
	if err := s.regenerate(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *deckService) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx).WithField("card_id", id)
	deleted, err := s.cards.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return false, fmt.Errorf("delete card %d: %w", id, err)
	}
	if !deleted {
		log.Debug("card not found, nothing to delete")
		return false, nil
	}
	// Regenerate rebuilds from scratch anyway; dropping the entry first keeps
	// the order clean if regeneration fails part way.
	if err := s.order.RemoveReferencesTo(ctx, id); err != nil {
		log.Error("failed to remove order entries: %v", err)
		return true, err
	}
	if err := s.regenerate(ctx); err != nil {
		return true, err
	}
	log.Debug("card deleted")
	return true, nil
}

func (s *deckService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx)
	if err := s.cards.Clear(ctx); err != nil {
		log.Error("failed to clear cards: %v", err)
		return fmt.Errorf("clear cards: %w", err)
	}
	log.Info("all cards cleared")
	return s.regenerate(ctx)
}

func (s *deckService) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.cards.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// Advance moves the position by delta, wrapping around deckLength, and
// saves it. An empty deck leaves the position untouched.
func (s *deckService) Advance(ctx context.Context, delta, deckLength int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance(ctx, delta, deckLength)
}

func (s *deckService) Step(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.cards.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return s.advance(ctx, delta, n)
}

func (s *deckService) advance(ctx context.Context, delta, deckLength int) (int, error) {
	current, err := s.position.Current(ctx)
	if err != nil {
		return 0, err
	}
	if deckLength <= 0 {
		return current, nil
	}
	next := wrap(current+delta, deckLength)
	if err := s.position.Save(ctx, next); err != nil {
		return 0, err
	}
	deckLog(ctx).Debug("position %d -> %d of %d", current, next, deckLength)
	return next, nil
}

// wrap maps i into [0, n) for any sign or magnitude of i.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (s *deckService) SavePosition(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.Save(ctx, index)
}

func (s *deckService) CurrentPosition(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.Current(ctx)
}

func (s *deckService) Session(ctx context.Context) (*models.DeckSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initializeOrderIfNeeded(ctx); err != nil {
		return nil, err
	}
	cards, err := s.orderedDeck(ctx)
	if err != nil {
		return nil, err
	}
	index, err := s.position.Current(ctx)
	if err != nil {
		return nil, err
	}

	session := &models.DeckSession{Cards: cards, Total: len(cards)}
	if len(cards) > 0 {
		session.CurrentIndex = wrap(index, len(cards))
		current := cards[session.CurrentIndex]
		session.Current = &current
	}
	return session, nil
}

func (s *deckService) Favorites(ctx context.Context) ([]models.FormattedFlashCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.cards.ListFavorites(ctx)
	if err != nil {
		deckLog(ctx).Error("failed to list favorites: %v", err)
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return cardfmt.FormatAll(favs), nil
}

func (s *deckService) ToggleFavorite(ctx context.Context, id int64) (*models.FormattedFlashCard, error) {
	return s.updateFavorite(ctx, id, func() (bool, error) {
		return s.cards.ToggleFavorite(ctx, id)
	})
}

func (s *deckService) SetFavorite(ctx context.Context, id int64, favorite bool) (*models.FormattedFlashCard, error) {
	return s.updateFavorite(ctx, id, func() (bool, error) {
		return s.cards.SetFavorite(ctx, id, favorite)
	})
}

// updateFavorite applies fn and returns the updated card. Order and position
// are left alone.
func (s *deckService) updateFavorite(ctx context.Context, id int64, fn func() (bool, error)) (*models.FormattedFlashCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := deckLog(ctx).WithField("card_id", id)
	found, err := fn()
	if err != nil {
		log.Error("failed to update favorite: %v", err)
		return nil, fmt.Errorf("update favorite for card %d: %w", id, err)
	}
	if !found {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load card %d: %w", id, err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	log.Debug("favorite=%t", card.Favorite)
	formatted := cardfmt.Format(*card)
	return &formatted, nil
}
