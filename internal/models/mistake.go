package models

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the fixed difficulty rating of a mistake's topic.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Valid reports whether d is one of the three known ratings.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ReviewResult is the outcome the user reports after reviewing a mistake.
type ReviewResult string

const (
	ResultEasy   ReviewResult = "easy"
	ResultMedium ReviewResult = "medium"
	ResultHard   ReviewResult = "hard"
	ResultFailed ReviewResult = "failed"
)

// Valid reports whether r is one of the four outcome tags.
func (r ReviewResult) Valid() bool {
	switch r {
	case ResultEasy, ResultMedium, ResultHard, ResultFailed:
		return true
	}
	return false
}

// ParseReviewResult parses an outcome tag. Tags are case-insensitive.
func ParseReviewResult(s string) (ReviewResult, error) {
	r := ReviewResult(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown review result %q", s)
	}
	return r, nil
}

// Mistake is a logged academic mistake scheduled for spaced review.
// JSON names match the layout persisted by earlier clients.
type Mistake struct {
	ID               string        `json:"id"`
	Subject          string        `json:"subject"`
	Description      string        `json:"description"`
	ProblemImage     *string       `json:"problemImage,omitempty"`
	SolutionImage    *string       `json:"solutionImage,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	NextReviewDate   time.Time     `json:"nextReviewDate"`
	ReviewCount      int           `json:"reviewCount"`
	DifficultyLevel  Difficulty    `json:"difficultyLevel"`
	LastReviewResult *ReviewResult `json:"lastReviewResult,omitempty"`
}

// Clone returns a copy that shares no pointers with m.
func (m Mistake) Clone() Mistake {
	out := m
	if m.ProblemImage != nil {
		v := *m.ProblemImage
		out.ProblemImage = &v
	}
	if m.SolutionImage != nil {
		v := *m.SolutionImage
		out.SolutionImage = &v
	}
	if m.LastReviewResult != nil {
		v := *m.LastReviewResult
		out.LastReviewResult = &v
	}
	return out
}

// IsDue reports whether the mistake should be reviewed at now. The boundary is inclusive.
func (m Mistake) IsDue(now time.Time) bool {
	return !m.NextReviewDate.After(now)
}

// NewMistake holds the caller-supplied fields of a mistake.
type NewMistake struct {
	Subject         string     `json:"subject"`
	Description     string     `json:"description"`
	ProblemImage    *string    `json:"problemImage,omitempty"`
	SolutionImage   *string    `json:"solutionImage,omitempty"`
	DifficultyLevel Difficulty `json:"difficultyLevel"`
}

// Sort orders accepted by MistakeFilter.
const (
	SortRecent     = "recent"
	SortSubject    = "subject"
	SortDifficulty = "difficulty"
)

type MistakeFilter struct {
	// Difficulty restricts results to one rating; zero means all.
	Difficulty Difficulty
	SortBy     string
}

type MistakeStats struct {
	Total          int                `json:"total"`
	ByDifficulty   map[Difficulty]int `json:"by_difficulty"`
	DueNow         int                `json:"due_now"`
	AddedThisWeek  int                `json:"added_this_week"`
	AddedThisMonth int                `json:"added_this_month"`
	ReviewedOnce   int                `json:"reviewed_once"`
}

// CalendarDay groups the mistakes relevant to one day.
type CalendarDay struct {
	Date     string    `json:"date"`
	Mistakes []Mistake `json:"mistakes"`
	Reviews  []Mistake `json:"reviews"`
}
