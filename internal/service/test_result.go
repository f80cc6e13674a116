package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"vocab-learning/internal/domain"
	"vocab-learning/internal/models"
)

// ResultStatistics summarizes stored test results. It is computed from
// test_results rows only and is independent of the leaderboard aggregates.
type ResultStatistics struct {
	TotalTests            int        `json:"total_tests"`
	AverageScore          float64    `json:"average_score"`
	AverageCompletionTime float64    `json:"average_completion_time"`
	BestScore             float64    `json:"best_score"`
	LastSubmissionAt      *time.Time `json:"last_submission_at"`
	Participants          int        `json:"participants,omitempty"`
}

type TestResultService struct {
	results TestResultStore
}

func NewTestResultService(results TestResultStore) *TestResultService {
	return &TestResultService{results: results}
}

func toResults(rs []models.TestResult) []*domain.TestResult {
	return lo.Map(rs, func(r models.TestResult, _ int) *domain.TestResult {
		return domain.TestResultFromEntity(&r)
	})
}

// Record validates and stores r, setting r.ID.
func (s *TestResultService) Record(ctx context.Context, r *domain.TestResult) error {
	if err := r.Validate(); err != nil {
		return err
	}
	entity := r.ToEntity()
	if err := s.results.Create(ctx, entity); err != nil {
		return err
	}
	r.ID = entity.ID
	return nil
}

func (s *TestResultService) Get(ctx context.Context, id int64) (*domain.TestResult, error) {
	r, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.TestResultFromEntity(r), nil
}

func (s *TestResultService) ListByUser(ctx context.Context, userID int64) ([]*domain.TestResult, error) {
	rs, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResults(rs), nil
}

func (s *TestResultService) ListByTopic(ctx context.Context, topicID int64) ([]*domain.TestResult, error) {
	rs, err := s.results.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return toResults(rs), nil
}

func (s *TestResultService) ListByUserAndTopic(ctx context.Context, userID, topicID int64) ([]*domain.TestResult, error) {
	rs, err := s.results.ListByUserAndTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	return toResults(rs), nil
}

func (s *TestResultService) Delete(ctx context.Context, id int64) error {
	return s.results.Delete(ctx, id)
}

func (s *TestResultService) UserStatistics(ctx context.Context, userID int64) (*ResultStatistics, error) {
	results, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(results), nil
}

func (s *TestResultService) TopicStatistics(ctx context.Context, topicID int64) (*ResultStatistics, error) {
	results, err := s.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	stats := summarize(results)
	stats.Participants = len(lo.UniqBy(results, func(r *domain.TestResult) int64 { return r.UserID }))
	return stats, nil
}

func summarize(results []*domain.TestResult) *ResultStatistics {
	stats := &ResultStatistics{
		TotalTests:            len(results),
		AverageScore:          domain.AverageScore(results),
		AverageCompletionTime: domain.AverageCompletionTime(results),
	}
	if len(results) == 0 {
		return stats
	}
	stats.BestScore = lo.MaxBy(results, func(a, b *domain.TestResult) bool { return a.Score > b.Score }).Score
	last := lo.MaxBy(results, func(a, b *domain.TestResult) bool { return a.CreatedAt.After(b.CreatedAt) }).CreatedAt
	stats.LastSubmissionAt = &last
	return stats
}
