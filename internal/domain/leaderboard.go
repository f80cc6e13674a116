package domain

import (
	"fmt"
	"time"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

// Leaderboard is the per-(user, topic) aggregate. Rank is not stored; it is
// filled by the query or listing that produced the entry.
type Leaderboard struct {
	ID             int64
	UserID         int64
	TopicID        int64
	TotalScore     float64
	TestsCompleted int
	AverageScore   float64
	LastUpdated    time.Time
	Username       string
	Rank           int
}

func (l *Leaderboard) Validate() error {
	switch {
	case l.UserID <= 0 || l.TopicID <= 0:
		return apperr.Validation("user_id and topic_id are required")
	case l.TotalScore < 0 || l.AverageScore < 0:
		return apperr.Validation("scores must not be negative")
	case l.TestsCompleted <= 0:
		return apperr.Validation("tests_completed must be greater than 0")
	}
	return nil
}

// Percentile is ((total - rank) / total) * 100, 0 when there are no participants.
func Percentile(rank, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-rank) / float64(total) * 100
}

// RankLabel renders an ordinal such as 1st, 12th or 23rd.
func RankLabel(rank int) string {
	switch {
	case rank%100 >= 11 && rank%100 <= 13:
		return fmt.Sprintf("%dth", rank)
	case rank%10 == 1:
		return fmt.Sprintf("%dst", rank)
	case rank%10 == 2:
		return fmt.Sprintf("%dnd", rank)
	case rank%10 == 3:
		return fmt.Sprintf("%drd", rank)
	default:
		return fmt.Sprintf("%dth", rank)
	}
}

// Medal names the medal for the top three ranks, empty otherwise.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}

func LeaderboardFromEntity(e *models.Leaderboard) *Leaderboard {
	return &Leaderboard{
		ID:             e.ID,
		UserID:         e.UserID,
		TopicID:        e.TopicID,
		TotalScore:     e.TotalScore,
		TestsCompleted: e.TestsCompleted,
		AverageScore:   e.AverageScore,
		LastUpdated:    e.LastUpdated,
		Username:       e.Username,
	}
}

func (l *Leaderboard) ToEntity() *models.Leaderboard {
	return &models.Leaderboard{
		ID:             l.ID,
		UserID:         l.UserID,
		TopicID:        l.TopicID,
		TotalScore:     l.TotalScore,
		TestsCompleted: l.TestsCompleted,
		AverageScore:   l.AverageScore,
		LastUpdated:    l.LastUpdated,
		Username:       l.Username,
	}
}
