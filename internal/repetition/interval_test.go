package repetition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edatlas/edatlas/internal/models"
	"github.com/edatlas/edatlas/internal/repetition"
)

func result(r models.ReviewResult) *models.ReviewResult {
	return &r
}

var allResults = []*models.ReviewResult{
	nil,
	result(models.ResultEasy),
	result(models.ResultMedium),
	result(models.ResultHard),
	result(models.ResultFailed),
}

var allDifficulties = []models.Difficulty{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyHard,
}

func TestNextReviewDate_InitialMediumIsOneDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)

	next := repetition.NextReviewDate(0, models.DifficultyMedium, nil, now)

	assert.Equal(t, now.Add(24*time.Hour), next)
}

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		name        string
		reviewCount int
		difficulty  models.Difficulty
		last        *models.ReviewResult
		expected    int
	}{
		{"initial schedule medium topic", 0, models.DifficultyMedium, nil, 1},
		{"medium result clamps to last step", 4, models.DifficultyMedium, result(models.ResultMedium), 30},
		{"failed at zero floors at one day on hard topic", 0, models.DifficultyHard, result(models.ResultFailed), 1},
		{"easy result skips ahead on easy topic", 2, models.DifficultyEasy, result(models.ResultEasy), 18}, // floor(14 * 1.3)
		{"large count clamps without result", 10, models.DifficultyMedium, nil, 30},
		{"large count clamps with easy result", 10, models.DifficultyMedium, result(models.ResultEasy), 30},
		{"hard result at zero stays on first step", 0, models.DifficultyMedium, result(models.ResultHard), 1},
		{"hard result regresses one step", 3, models.DifficultyMedium, result(models.ResultHard), 7},
		{"easy result advances one step", 1, models.DifficultyMedium, result(models.ResultEasy), 7},
		{"easy topic at last step", 4, models.DifficultyEasy, result(models.ResultEasy), 39},
		{"hard topic at last step", 4, models.DifficultyHard, result(models.ResultMedium), 21},
		{"hard topic floors fractional days", 2, models.DifficultyHard, result(models.ResultHard), 2}, // floor(3 * 0.7)
		{"easy topic floors fractional days", 1, models.DifficultyEasy, nil, 3},                       // floor(3 * 1.3)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repetition.IntervalDays(tt.reviewCount, tt.difficulty, tt.last))
		})
	}
}

func TestIntervalDays_TablePerDifficulty(t *testing.T) {
	expected := map[models.Difficulty][]int{
		models.DifficultyEasy:   {1, 3, 9, 18, 39},
		models.DifficultyMedium: {1, 3, 7, 14, 30},
		models.DifficultyHard:   {1, 2, 4, 9, 21},
	}

	for difficulty, days := range expected {
		for step, want := range days {
			got := repetition.IntervalDays(step, difficulty, result(models.ResultMedium))
			assert.Equal(t, want, got, "difficulty=%s step=%d", difficulty, step)
		}
	}
}

func TestIntervalDays_NeverBelowOneDay(t *testing.T) {
	for _, difficulty := range allDifficulties {
		for _, last := range allResults {
			for count := 0; count <= 10; count++ {
				days := repetition.IntervalDays(count, difficulty, last)
				assert.GreaterOrEqual(t, days, 1, "count=%d difficulty=%s", count, difficulty)
			}
		}
	}
}

func TestIntervalDays_NegativeCountClampsToFirstStep(t *testing.T) {
	assert.Equal(t, 1, repetition.IntervalDays(-3, models.DifficultyMedium, nil))
	assert.Equal(t, 1, repetition.IntervalDays(-1, models.DifficultyMedium, result(models.ResultFailed)))
}

func TestApplyReview_FailedNeverGoesNegative(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	m := models.Mistake{DifficultyLevel: models.DifficultyMedium, ReviewCount: 0}

	updated := repetition.ApplyReview(m, models.ResultFailed, now)

	assert.Equal(t, 0, updated.ReviewCount)
	require.NotNil(t, updated.LastReviewResult)
	assert.Equal(t, models.ResultFailed, *updated.LastReviewResult)
	assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReviewDate)
}

func TestApplyReview_FailedStepsBack(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	m := models.Mistake{DifficultyLevel: models.DifficultyMedium, ReviewCount: 3}

	updated := repetition.ApplyReview(m, models.ResultFailed, now)

	assert.Equal(t, 2, updated.ReviewCount)
	// step = max(0, 2-1) = 1
	assert.Equal(t, now.AddDate(0, 0, 3), updated.NextReviewDate)
}

func TestApplyReview_UsesNewCount(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	m := models.Mistake{DifficultyLevel: models.DifficultyMedium, ReviewCount: 0}

	updated := repetition.ApplyReview(m, models.ResultMedium, now)

	assert.Equal(t, 1, updated.ReviewCount)
	assert.Equal(t, now.AddDate(0, 0, 3), updated.NextReviewDate)
	assert.Equal(t, 0, m.ReviewCount, "input should not be modified")
	assert.Nil(t, m.LastReviewResult)
}

func TestApplyReview_SuccessfulOutcomesAdvance(t *testing.T) {
	now := time.Now().UTC()
	for _, r := range []models.ReviewResult{models.ResultEasy, models.ResultMedium, models.ResultHard} {
		t.Run(string(r), func(t *testing.T) {
			m := models.Mistake{DifficultyLevel: models.DifficultyHard, ReviewCount: 2}
			updated := repetition.ApplyReview(m, r, now)
			assert.Equal(t, 3, updated.ReviewCount)
			assert.True(t, updated.NextReviewDate.After(now))
		})
	}
}
