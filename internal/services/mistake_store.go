package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edatlas/edatlas/internal/errors"
	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
	"github.com/edatlas/edatlas/internal/repetition"
	"github.com/edatlas/edatlas/internal/repository"
)

// MistakeStore owns the mistake collection. The in-memory collection is the
// source of truth; every mutation rewrites the whole collection to the
// repository after it has been applied.
type MistakeStore struct {
	mu       sync.RWMutex
	repo     repository.MistakeRepository
	mistakes []models.Mistake // newest first
	dirty    bool
	now      func() time.Time
	newID    func() string
}

// StoreOption configures a MistakeStore.
type StoreOption func(*MistakeStore)

// WithClock overrides the wall clock used for scheduling.
func WithClock(now func() time.Time) StoreOption {
	return func(s *MistakeStore) { s.now = now }
}

// WithIDGenerator overrides how mistake ids are assigned.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *MistakeStore) { s.newID = newID }
}

// NewMistakeStore loads the collection from repo once and returns the store.
func NewMistakeStore(ctx context.Context, repo repository.MistakeRepository, opts ...StoreOption) (*MistakeStore, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_store")

	s := &MistakeStore{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	mistakes, err := repo.Load(ctx)
	if err != nil {
		log.Error("failed to load mistakes: %v", err)
		return nil, fmt.Errorf("load mistakes: %w", err)
	}
	s.mistakes = mistakes
	log.Info("mistake store ready: %d mistakes", len(mistakes))
	return s, nil
}

func (s *MistakeStore) clock() time.Time {
	return s.now().UTC()
}

// AddMistake records a new mistake and schedules its first review.
func (s *MistakeStore) AddMistake(ctx context.Context, in models.NewMistake) (models.Mistake, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_store")

	subject := strings.TrimSpace(in.Subject)
	description := strings.TrimSpace(in.Description)
	if subject == "" {
		return models.Mistake{}, errors.NewValidationError("subject", "must not be empty")
	}
	if description == "" {
		return models.Mistake{}, errors.NewValidationError("description", "must not be empty")
	}
	if !in.DifficultyLevel.Valid() {
		return models.Mistake{}, errors.NewValidationError("difficultyLevel", "must be 1, 2 or 3")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	m := models.Mistake{
		ID:              s.newID(),
		Subject:         subject,
		Description:     description,
		ProblemImage:    nonEmpty(in.ProblemImage),
		SolutionImage:   nonEmpty(in.SolutionImage),
		CreatedAt:       now,
		ReviewCount:     0,
		DifficultyLevel: in.DifficultyLevel,
		NextReviewDate:  repetition.NextReviewDate(0, in.DifficultyLevel, nil, now),
	}

	s.mistakes = append([]models.Mistake{m}, s.mistakes...)
	log.Info("mistake added: id=%s, subject=%s, difficulty=%s", m.ID, m.Subject, m.DifficultyLevel)
	log.Info("scheduling review notification for %s", m.NextReviewDate.Format(time.RFC3339))

	return m.Clone(), s.persist(ctx)
}

// UpdateMistakeReview applies a review outcome to the mistake with the given id.
func (s *MistakeStore) UpdateMistakeReview(ctx context.Context, id string, result models.ReviewResult) (models.Mistake, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_store")

	if !result.Valid() {
		return models.Mistake{}, errors.NewValidationError("result", fmt.Sprintf("unknown review result %q", result))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		log.Debug("review for unknown mistake: id=%s", id)
		return models.Mistake{}, errors.NewNotFoundError("mistake", id)
	}

	before := s.mistakes[idx]
	updated := repetition.ApplyReview(before, result, s.clock())
	s.mistakes[idx] = updated

	log.Info("mistake reviewed: id=%s, result=%s, review_count=%d->%d, next_review=%s",
		id, result, before.ReviewCount, updated.ReviewCount, updated.NextReviewDate.Format(time.RFC3339))

	return updated.Clone(), s.persist(ctx)
}

// DueForReview returns the mistakes whose next review date is not after now,
// in collection order.
func (s *MistakeStore) DueForReview(ctx context.Context) []models.Mistake {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	due := []models.Mistake{}
	for _, m := range s.mistakes {
		if m.IsDue(now) {
			due = append(due, m.Clone())
		}
	}
	logger.FromContext(ctx).WithPrefix("mistake_store").Debug("%d of %d mistakes due", len(due), len(s.mistakes))
	return due
}

// DeleteMistake removes the mistake with the given id.
func (s *MistakeStore) DeleteMistake(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("mistake_store")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		log.Debug("delete for unknown mistake: id=%s", id)
		return errors.NewNotFoundError("mistake", id)
	}

	s.mistakes = append(s.mistakes[:idx:idx], s.mistakes[idx+1:]...)
	log.Info("mistake deleted: id=%s", id)
	return s.persist(ctx)
}

// Clear empties the logbook and removes the stored collection. It returns how
// many mistakes were dropped.
func (s *MistakeStore) Clear(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("mistake_store")

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.mistakes)
	s.mistakes = []models.Mistake{}
	if err := s.repo.Clear(ctx); err != nil {
		s.dirty = true
		log.Error("failed to clear stored mistakes, will retry on next change: %v", err)
		return n, errors.NewPersistenceError(err)
	}
	s.dirty = false
	log.Info("logbook cleared: %d mistakes removed", n)
	return n, nil
}

// Get returns the mistake with the given id.
func (s *MistakeStore) Get(ctx context.Context, id string) (models.Mistake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Mistake{}, errors.NewNotFoundError("mistake", id)
	}
	return s.mistakes[idx].Clone(), nil
}

// List returns the collection filtered and sorted for display.
func (s *MistakeStore) List(ctx context.Context, filter models.MistakeFilter) ([]models.Mistake, error) {
	if filter.Difficulty != 0 && !filter.Difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be 1, 2 or 3")
	}

	s.mu.RLock()
	out := make([]models.Mistake, 0, len(s.mistakes))
	for _, m := range s.mistakes {
		if filter.Difficulty == 0 || m.DifficultyLevel == filter.Difficulty {
			out = append(out, m.Clone())
		}
	}
	s.mu.RUnlock()

	switch filter.SortBy {
	case "", models.SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case models.SortSubject:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Subject) < strings.ToLower(out[j].Subject)
		})
	case models.SortDifficulty:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DifficultyLevel > out[j].DifficultyLevel })
	default:
		return nil, errors.NewValidationError("sort", "must be recent, subject or difficulty")
	}
	return out, nil
}

// Stats summarises the collection at call time.
func (s *MistakeStore) Stats(ctx context.Context) models.MistakeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	stats := models.MistakeStats{
		Total: len(s.mistakes),
		ByDifficulty: map[models.Difficulty]int{
			models.DifficultyEasy:   0,
			models.DifficultyMedium: 0,
			models.DifficultyHard:   0,
		},
	}
	for _, m := range s.mistakes {
		stats.ByDifficulty[m.DifficultyLevel]++
		if m.IsDue(now) {
			stats.DueNow++
		}
		if m.CreatedAt.After(weekAgo) {
			stats.AddedThisWeek++
		}
		if m.CreatedAt.After(monthAgo) {
			stats.AddedThisMonth++
		}
		if m.LastReviewResult != nil {
			stats.ReviewedOnce++
		}
	}
	return stats
}

// ScheduledOn returns the mistakes whose next review falls on the calendar day
// of date, in date's location.
func (s *MistakeStore) ScheduledOn(ctx context.Context, date time.Time) []models.Mistake {
	start, end := dayBounds(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(m models.Mistake) bool { return within(m.NextReviewDate, start, end) })
}

// CreatedOn returns the mistakes logged on the calendar day of date.
func (s *MistakeStore) CreatedOn(ctx context.Context, date time.Time) []models.Mistake {
	start, end := dayBounds(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(m models.Mistake) bool { return within(m.CreatedAt, start, end) })
}

// CalendarDay lists everything that touches one calendar day: Mistakes holds
// records logged or due that day, Reviews only those due that day.
func (s *MistakeStore) CalendarDay(ctx context.Context, date time.Time) models.CalendarDay {
	start, end := dayBounds(date)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CalendarDay{
		Date: start.Format(time.DateOnly),
		Mistakes: s.collect(func(m models.Mistake) bool {
			return within(m.CreatedAt, start, end) || within(m.NextReviewDate, start, end)
		}),
		Reviews: s.collect(func(m models.Mistake) bool { return within(m.NextReviewDate, start, end) }),
	}
}

// collect copies the mistakes matching keep in collection order. Callers hold s.mu.
func (s *MistakeStore) collect(keep func(models.Mistake) bool) []models.Mistake {
	out := []models.Mistake{}
	for _, m := range s.mistakes {
		if keep(m) {
			out = append(out, m.Clone())
		}
	}
	return out
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Flush writes the collection if an earlier save failed.
func (s *MistakeStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persist(ctx)
}

// Pending reports whether the repository is behind the in-memory collection.
func (s *MistakeStore) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// persist writes the full collection. Callers hold s.mu for writing.
func (s *MistakeStore) persist(ctx context.Context) error {
	snapshot := make([]models.Mistake, len(s.mistakes))
	copy(snapshot, s.mistakes)

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.dirty = true
		logger.FromContext(ctx).WithPrefix("mistake_store").
			Error("failed to persist %d mistakes, will retry on next change: %v", len(snapshot), err)
		return errors.NewPersistenceError(err)
	}
	s.dirty = false
	return nil
}

func (s *MistakeStore) indexOf(id string) int {
	for i := range s.mistakes {
		if s.mistakes[i].ID == id {
			return i
		}
	}
	return -1
}

func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}
