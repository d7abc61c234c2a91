package services_test

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository/memory"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func TestOrderStore_RegeneratePermutation(t *testing.T) {
	ctx := context.Background()
	store := services.NewOrderStore(memory.NewOrderRepository(), rand.New(rand.NewPCG(1, 2)))
	ids := []int64{3, 5, 8, 13, 21}

	require.NoError(t, store.Regenerate(ctx, ids))

	got, err := store.OrderedIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, got)
	assert.Equal(t, []int64{3, 5, 8, 13, 21}, ids, "input must not be reordered")
}

func TestOrderStore_RegenerateEmptyClears(t *testing.T) {
	ctx := context.Background()
	store := services.NewOrderStore(memory.NewOrderRepository(), nil)
	require.NoError(t, store.Regenerate(ctx, []int64{1, 2}))

	require.NoError(t, store.Regenerate(ctx, nil))

	got, err := store.OrderedIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderStore_IsValid(t *testing.T) {
	ctx := context.Background()
	store := services.NewOrderStore(memory.NewOrderRepository(), nil)

	valid, err := store.IsValid(ctx, 0)
	require.NoError(t, err)
	assert.False(t, valid, "empty deck is never valid")

	require.NoError(t, store.Regenerate(ctx, []int64{1, 2, 3}))
	valid, err = store.IsValid(ctx, 3)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = store.IsValid(ctx, 4)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestOrderStore_RemoveReferencesTo(t *testing.T) {
	ctx := context.Background()
	store := services.NewOrderStore(memory.NewOrderRepository(), nil)
	require.NoError(t, store.Regenerate(ctx, []int64{1, 2, 3}))

	require.NoError(t, store.RemoveReferencesTo(ctx, 2))

	got, err := store.OrderedIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, got)
}

func TestOrderStore_RegenerateAssignsSequentialPositions(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockOrderRepository)
	repo.On("Clear", ctx).Return(nil)
	repo.On("InsertBatch", ctx, mock.MatchedBy(func(entries []models.OrderEntry) bool {
		for i, e := range entries {
			if e.Position != i {
				return false
			}
		}
		return len(entries) == 3
	})).Return(nil)

	store := services.NewOrderStore(repo, nil)
	require.NoError(t, store.Regenerate(ctx, []int64{4, 5, 6}))
	repo.AssertExpectations(t)
}

func TestOrderStore_ClearFailureStopsRegenerate(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("disk full")
	repo := new(mocks.MockOrderRepository)
	repo.On("Clear", ctx).Return(boom)

	store := services.NewOrderStore(repo, nil)
	err := store.Regenerate(ctx, []int64{1})

	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestPositionTracker(t *testing.T) {
	ctx := context.Background()
	tracker := services.NewPositionTracker(memory.NewProgressRepository())

	pos, err := tracker.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, pos)

	require.NoError(t, tracker.Save(ctx, 42))
	pos, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, pos, "no range validation")

	require.NoError(t, tracker.Reset(ctx))
	pos, err = tracker.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, pos)
}

func TestPositionTracker_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("locked")
	repo := new(mocks.MockProgressRepository)
	repo.On("Get", ctx, models.CurrentPositionKey).Return(nil, boom)

	_, err := services.NewPositionTracker(repo).Current(ctx)
	assert.ErrorIs(t, err, boom)
}
