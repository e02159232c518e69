package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edatlas/edatlas/internal/db"
	"github.com/edatlas/edatlas/internal/models"
)

// NewTestDB creates a SQLite database in a temporary directory with all
// migrations applied. The directory is removed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}

// Clock is a settable time source for tests.
type Clock struct {
	Current time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{Current: t}
}

func (c *Clock) Now() time.Time {
	return c.Current
}

func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// AssertSameMistake compares every field of two mistakes, using time.Equal for timestamps.
func AssertSameMistake(t *testing.T, want, got models.Mistake) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Subject, got.Subject)
	require.Equal(t, want.Description, got.Description)
	require.Equal(t, want.ProblemImage, got.ProblemImage)
	require.Equal(t, want.SolutionImage, got.SolutionImage)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt: want %s, got %s", want.CreatedAt, got.CreatedAt)
	require.True(t, want.NextReviewDate.Equal(got.NextReviewDate), "nextReviewDate: want %s, got %s", want.NextReviewDate, got.NextReviewDate)
	require.Equal(t, want.ReviewCount, got.ReviewCount)
	require.Equal(t, want.DifficultyLevel, got.DifficultyLevel)
	require.Equal(t, want.LastReviewResult, got.LastReviewResult)
}
