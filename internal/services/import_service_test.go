package services_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/memory"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func newImportFixture(t *testing.T) (repository.Store, services.DeckService, services.ImportService) {
	t.Helper()
	store := memory.NewStore()
	deck := services.NewDeckService(store, nil)
	return store, deck, services.NewImportService(deck, nil)
}

func TestImportRows_SkipsMalformed(t *testing.T) {
	ctx := context.Background()
	store, deck, imp := newImportFixture(t)

	n, err := imp.ImportRows(ctx, [][]string{{"Q1", "A1"}, {"Q2", "A2"}, {"bad"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := deck.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	order, err := store.Order.OrderedCardIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, order, 2)
}

func TestImportRows_TrimsAndDropsBlank(t *testing.T) {
	cards := services.RowsToCards([][]string{
		{"  Q1 ", " A1", "extra"},
		{"", "A2"},
		{"Q3", "   "},
		{},
	})
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Front)
	assert.Equal(t, "A1", cards[0].Back)
}

func TestImportRows_NothingValidWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, _, imp := newImportFixture(t)

	n, err := imp.ImportRows(ctx, [][]string{{"only"}, {"", ""}})
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Cards.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	_, deck, imp := newImportFixture(t)

	n, err := imp.ImportCSV(ctx, strings.NewReader("Q1,A1\n\"Q2, quoted\",A2\nlonely\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	natural, err := deck.NaturalDeck(ctx)
	require.NoError(t, err)
	require.Len(t, natural, 2)
	assert.Equal(t, "Q2, quoted", natural[1].Front.Raw)
}

func TestImportCSV_ParseErrorIsValidation(t *testing.T) {
	_, _, imp := newImportFixture(t)

	_, err := imp.ImportCSV(context.Background(), strings.NewReader("\"unterminated,A1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestImportFiles_LexicalOrder(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("B,b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("A,a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.csv"), []byte("C,c\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("X,x\n"), 0o644))

	_, deck, imp := newImportFixture(t)
	n, err := imp.ImportFiles(ctx, filepath.Join(dir, "**", "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	natural, err := deck.NaturalDeck(ctx)
	require.NoError(t, err)
	fronts := make([]string, len(natural))
	for i, c := range natural {
		fronts[i] = c.Front.Raw
	}
	assert.Equal(t, []string{"A", "B", "C"}, fronts)
}

func TestImportFiles_NoMatches(t *testing.T) {
	_, _, imp := newImportFixture(t)

	_, err := imp.ImportFiles(context.Background(), filepath.Join(t.TempDir(), "*.csv"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestImportRows_StorageFailurePropagates(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("database is locked")
	cards := new(mocks.MockCardRepository)
	cards.On("InsertBatch", ctx, mock.Anything).Return(nil, boom)

	store := repository.Store{
		Cards:    cards,
		Order:    new(mocks.MockOrderRepository),
		Progress: new(mocks.MockProgressRepository),
	}
	imp := services.NewImportService(services.NewDeckService(store, nil), nil)

	_, err := imp.ImportRows(ctx, [][]string{{"Q", "A"}})
	assert.ErrorIs(t, err, boom)
	cards.AssertExpectations(t)
}

func TestReplaceCSV(t *testing.T) {
	ctx := context.Background()
	_, deck, imp := newImportFixture(t)
	_, err := imp.ImportRows(ctx, [][]string{{"Old", "old"}})
	require.NoError(t, err)

	n, err := imp.ReplaceCSV(ctx, strings.NewReader("New1,a\nNew2,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	natural, err := deck.NaturalDeck(ctx)
	require.NoError(t, err)
	require.Len(t, natural, 2)
	assert.Equal(t, "New1", natural[0].Front.Raw)
}

func TestReplaceCSV_ParseErrorKeepsDeck(t *testing.T) {
	ctx := context.Background()
	_, deck, imp := newImportFixture(t)
	_, err := imp.ImportRows(ctx, [][]string{{"Old", "old"}})
	require.NoError(t, err)

	_, err = imp.ReplaceCSV(ctx, strings.NewReader("\"broken,a\n"))
	require.Error(t, err)

	n, err := deck.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplaceCSV_ReadersNeverSeeEmptyDeck(t *testing.T) {
	ctx := context.Background()
	_, deck, imp := newImportFixture(t)
	_, err := imp.ImportRows(ctx, [][]string{{"Old", "old"}})
	require.NoError(t, err)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for range 50 {
			if _, err := imp.ReplaceCSV(ctx, strings.NewReader("New1,a\nNew2,b\n")); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	empty := 0
	for {
		select {
		case <-done:
			wg.Wait()
			assert.Zero(t, empty, "count observed between clear and insert")
			return
		default:
		}
		n, err := deck.Count(ctx)
		require.NoError(t, err)
		if n == 0 {
			empty++
		}
	}
}

func TestReplaceCSV_InsertFailureIsReported(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("disk I/O error")
	cards := new(mocks.MockCardRepository)
	cards.On("Clear", ctx).Return(nil)
	cards.On("InsertBatch", ctx, mock.Anything).Return(nil, boom)
	cards.On("IDs", ctx).Return(nil, stderrors.New("still failing"))

	store := repository.Store{
		Cards:    cards,
		Order:    new(mocks.MockOrderRepository),
		Progress: new(mocks.MockProgressRepository),
	}
	imp := services.NewImportService(services.NewDeckService(store, nil), nil)

	n, err := imp.ReplaceCSV(ctx, strings.NewReader("Q,A\n"))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, boom)
	cards.AssertExpectations(t)
}
