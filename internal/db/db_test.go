package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	for _, table := range []string{"flashcards", "card_order", "user_progress"} {
		var name string
		err := database.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpen_FavoriteDefaultsToFalse(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.ExecContext(ctx, `INSERT INTO flashcards (front, back) VALUES ('q', 'a')`)
	require.NoError(t, err)

	var favorite bool
	require.NoError(t, database.QueryRowContext(ctx, `SELECT favorite FROM flashcards`).Scan(&favorite))
	assert.False(t, favorite)
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := "file:" + filepath.Join(t.TempDir(), "deck.db")

	first, err := db.Open(ctx, path)
	require.NoError(t, err)
	_, err = first.ExecContext(ctx, `INSERT INTO flashcards (front, back) VALUES ('q', 'a')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&count))
	assert.Equal(t, 1, count)
}
