package domain

import (
	"time"

	"github.com/samber/lo"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

// TestResult is one submission of a topic's tests. Score is a percentage.
type TestResult struct {
	ID             int64
	UserID         int64
	TopicID        int64
	Score          float64
	CompletionTime int
	CreatedAt      time.Time
}

func (r *TestResult) Validate() error {
	switch {
	case r.UserID <= 0:
		return apperr.Validation("user_id must be greater than or equal to 1")
	case r.TopicID <= 0:
		return apperr.Validation("topic_id must be greater than or equal to 1")
	case r.Score < 0 || r.Score > 100:
		return apperr.Validation("score must be between 0 and 100")
	case r.CompletionTime < 0:
		return apperr.Validation("completion_time must be greater than or equal to 0")
	}
	return nil
}

func (r *TestResult) CompletionMinutes() float64 {
	return float64(r.CompletionTime) / 60.0
}

// Grade maps the percentage to a letter: A >= 90, B >= 80, C >= 70, D >= 60, otherwise F.
func (r *TestResult) Grade() string {
	switch {
	case r.Score >= 90:
		return "A"
	case r.Score >= 80:
		return "B"
	case r.Score >= 70:
		return "C"
	case r.Score >= 60:
		return "D"
	default:
		return "F"
	}
}

// AverageScore is the mean score, 0 for no results.
func AverageScore(results []*TestResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := lo.SumBy(results, func(r *TestResult) float64 { return r.Score })
	return total / float64(len(results))
}

// AverageCompletionTime is the mean completion time in seconds, 0 for no results.
func AverageCompletionTime(results []*TestResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := lo.SumBy(results, func(r *TestResult) int { return r.CompletionTime })
	return float64(total) / float64(len(results))
}

func TestResultFromEntity(e *models.TestResult) *TestResult {
	return &TestResult{
		ID:             e.ID,
		UserID:         e.UserID,
		TopicID:        e.TopicID,
		Score:          e.Score,
		CompletionTime: e.CompletionTime,
		CreatedAt:      e.CreatedAt,
	}
}

func (r *TestResult) ToEntity() *models.TestResult {
	return &models.TestResult{
		ID:             r.ID,
		UserID:         r.UserID,
		TopicID:        r.TopicID,
		Score:          r.Score,
		CompletionTime: r.CompletionTime,
		CreatedAt:      r.CreatedAt,
	}
}
