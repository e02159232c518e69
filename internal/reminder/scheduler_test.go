package reminder_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
	"github.com/edatlas/edatlas/internal/reminder"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	due   []models.Mistake
}

func (f *fakeSource) DueForReview(context.Context) []models.Mistake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.due
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(out *syncBuffer) *logger.Logger {
	return logger.New(logger.WithOutput(out), logger.WithColors(false), logger.WithLevel(logger.DEBUG))
}

func TestRunOnce_LogsEachDueMistake(t *testing.T) {
	var out syncBuffer
	source := &fakeSource{due: []models.Mistake{
		{ID: "a", Subject: "Algebra", NextReviewDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Subject: "Biology", NextReviewDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}}
	s := reminder.NewScheduler(source, time.Hour, testLogger(&out))

	n := s.RunOnce(context.Background())

	assert.Equal(t, 2, n)
	logged := out.String()
	assert.Contains(t, logged, "review reminder: Algebra (due 2024-01-01T00:00:00Z)")
	assert.Contains(t, logged, "mistake_id=b")
	assert.Contains(t, logged, "2 mistakes due for review")
}

func TestRunOnce_NothingDue(t *testing.T) {
	var out syncBuffer
	s := reminder.NewScheduler(&fakeSource{}, time.Hour, testLogger(&out))

	assert.Equal(t, 0, s.RunOnce(context.Background()))
	assert.NotContains(t, out.String(), "review reminder:")
}

func TestStart_ChecksImmediatelyAndStops(t *testing.T) {
	var out syncBuffer
	source := &fakeSource{}
	s := reminder.NewScheduler(source, 10*time.Millisecond, testLogger(&out))

	s.Start()
	require.Eventually(t, func() bool { return source.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	calls := source.Calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, source.Calls(), "no checks after Stop")
}

func TestStart_DisabledInterval(t *testing.T) {
	var out syncBuffer
	source := &fakeSource{}
	s := reminder.NewScheduler(source, 0, testLogger(&out))

	s.Start()
	s.Stop()

	assert.Equal(t, 0, source.Calls())
	assert.Contains(t, out.String(), "review reminders disabled")
}
