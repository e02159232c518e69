package reminder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
)

// DueSource lists the mistakes that are due for review.
type DueSource interface {
	DueForReview(ctx context.Context) []models.Mistake
}

// Scheduler periodically logs a reminder for every mistake that is due.
// Delivery is out of scope; the log line stands in for a notification.
type Scheduler struct {
	source   DueSource
	interval time.Duration
	log      *logger.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(source DueSource, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		source:   source,
		interval: interval,
		log:      log.WithPrefix("reminder"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the reminder loop in the background. It checks once immediately
// and then on every interval. A non-positive interval disables the loop.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	if s.source == nil || s.interval <= 0 {
		s.log.Info("review reminders disabled")
		close(s.done)
		return
	}
	go s.loop()
	s.log.Info("review reminders every %v", s.interval)
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	s.RunOnce(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce logs one reminder per due mistake and returns how many were due.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	due := s.source.DueForReview(logger.NewContext(ctx, s.log))
	if len(due) == 0 {
		s.log.Debug("no mistakes due for review")
		return 0
	}
	for _, m := range due {
		s.log.WithFields(map[string]any{
			"mistake_id":   m.ID,
			"review_count": m.ReviewCount,
		}).Info("review reminder: %s (due %s)", m.Subject, m.NextReviewDate.Format(time.RFC3339))
	}
	s.log.Info("%d mistakes due for review", len(due))
	return len(due)
}
