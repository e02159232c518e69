package repetition

import (
	"math"
	"time"

	"github.com/edatlas/edatlas/internal/models"
)

// baseIntervals holds the review interval in days for each progression step.
var baseIntervals = [...]int{1, 3, 7, 14, 30}

const (
	hardTopicFactor = 0.7
	easyTopicFactor = 1.3
)

// step selects the progression step for a review count and the outcome of the
// last review. A nil result is the initial schedule.
func step(reviewCount int, last *models.ReviewResult) int {
	s := reviewCount
	if last != nil {
		switch *last {
		case models.ResultFailed, models.ResultHard:
			s = reviewCount - 1
		case models.ResultEasy:
			s = reviewCount + 1
		}
	}
	return clamp(s, 0, len(baseIntervals)-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IntervalDays returns the number of days until the next review. The result is
// always at least one day.
func IntervalDays(reviewCount int, difficulty models.Difficulty, last *models.ReviewResult) int {
	days := baseIntervals[step(reviewCount, last)]

	switch difficulty {
	case models.DifficultyHard:
		days = max(1, int(math.Floor(float64(days)*hardTopicFactor)))
	case models.DifficultyEasy:
		days = int(math.Floor(float64(days) * easyTopicFactor))
	}
	return days
}

// NextReviewDate returns now plus IntervalDays calendar days.
func NextReviewDate(reviewCount int, difficulty models.Difficulty, last *models.ReviewResult, now time.Time) time.Time {
	return now.AddDate(0, 0, IntervalDays(reviewCount, difficulty, last))
}

// ApplyReview returns m after a review with the given outcome: a failed review
// steps the count back (never below zero), any other outcome advances it, and
// the next review date is recomputed from the new count.
func ApplyReview(m models.Mistake, result models.ReviewResult, now time.Time) models.Mistake {
	if result == models.ResultFailed {
		m.ReviewCount = max(0, m.ReviewCount-1)
	} else {
		m.ReviewCount++
	}
	r := result
	m.LastReviewResult = &r
	m.NextReviewDate = NextReviewDate(m.ReviewCount, m.DifficultyLevel, m.LastReviewResult, now)
	return m
}
