package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Cards builds n distinct unsaved cards.
func Cards(n int) []models.NewFlashCard {
	cards := make([]models.NewFlashCard, n)
	for i := range cards {
		cards[i] = models.NewFlashCard{
			Front: fmt.Sprintf("Question %d", i+1),
			Back:  fmt.Sprintf("Answer %d", i+1),
		}
	}
	return cards
}
