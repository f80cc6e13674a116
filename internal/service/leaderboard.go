package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/models"
)

const (
	DefaultTopLimit  = 10
	MaxTopLimit      = 100
	topPerformersLen = 5
)

// RankInfo is a user's standing in one topic. Rank is nil when the user has
// not submitted any test for it.
type RankInfo struct {
	TopicID           int64   `json:"topic_id"`
	Rank              *int    `json:"rank"`
	TotalParticipants int     `json:"total_participants"`
	Percentile        float64 `json:"percentile"`
}

// TopicLeaderboardStats summarizes a topic from leaderboard aggregates.
type TopicLeaderboardStats struct {
	TopicID           int64                 `json:"topic_id"`
	TotalParticipants int                   `json:"total_participants"`
	TotalTests        int                   `json:"total_tests"`
	AverageScore      float64               `json:"average_score"`
	HighestScore      float64               `json:"highest_score"`
	ScoreDistribution ScoreDistribution     `json:"score_distribution"`
	TopPerformers     []*domain.Leaderboard `json:"-"`
}

type UserTopicStanding struct {
	TopicID           int64   `json:"topic_id"`
	TopicName         string  `json:"topic_name"`
	TotalScore        float64 `json:"total_score"`
	TestsCompleted    int     `json:"tests_completed"`
	AverageScore      float64 `json:"average_score"`
	Rank              int     `json:"rank"`
	TotalParticipants int     `json:"total_participants"`
	Percentile        float64 `json:"percentile"`
}

// UserLeaderboardStats summarizes a user from leaderboard aggregates.
type UserLeaderboardStats struct {
	TotalTopicsParticipated int                  `json:"total_topics_participated"`
	BestRank                *int                 `json:"best_rank"`
	TotalTestsCompleted     int                  `json:"total_tests_completed"`
	AverageScoreOverall     float64              `json:"average_score_overall"`
	Topics                  []*UserTopicStanding `json:"topics"`
}

type LeaderboardService struct {
	boards LeaderboardStore
	topics TopicStore
}

func NewLeaderboardService(boards LeaderboardStore, topics TopicStore) *LeaderboardService {
	return &LeaderboardService{boards: boards, topics: topics}
}

func toLeaderboards(es []models.Leaderboard) []*domain.Leaderboard {
	return lo.Map(es, func(e models.Leaderboard, _ int) *domain.Leaderboard {
		return domain.LeaderboardFromEntity(&e)
	})
}

func (s *LeaderboardService) RecordScore(ctx context.Context, userID, topicID int64, score float64, at time.Time) (*domain.Leaderboard, error) {
	if score < 0 || score > 100 {
		return nil, apperr.Validation("score must be between 0 and 100")
	}
	e, err := s.boards.RecordScore(ctx, userID, topicID, score, at)
	if err != nil {
		return nil, err
	}
	return domain.LeaderboardFromEntity(e), nil
}

// TopicLeaderboard lists every participant of the topic with competition ranks.
func (s *LeaderboardService) TopicLeaderboard(ctx context.Context, topicID int64) ([]*domain.Leaderboard, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	es, err := s.boards.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	entries := toLeaderboards(es)
	AssignCompetitionRanks(entries)
	return entries, nil
}

// TopUsers returns the best limit entries ranked by list position.
// A limit of 0 means DefaultTopLimit.
func (s *LeaderboardService) TopUsers(ctx context.Context, topicID int64, limit int) ([]*domain.Leaderboard, error) {
	if limit == 0 {
		limit = DefaultTopLimit
	}
	if limit < 1 || limit > MaxTopLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", MaxTopLimit)
	}
	es, err := s.boards.TopScores(ctx, topicID, limit)
	if err != nil {
		return nil, err
	}
	entries := toLeaderboards(es)
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries, nil
}

func (s *LeaderboardService) UserRank(ctx context.Context, userID, topicID int64) (*RankInfo, error) {
	total, err := s.boards.CountByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	info := &RankInfo{TopicID: topicID, TotalParticipants: total}

	rank, ok, err := s.boards.UserRank(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if ok {
		info.Rank = &rank
		info.Percentile = domain.Percentile(rank, total)
	}
	return info, nil
}

func (s *LeaderboardService) TopicStatistics(ctx context.Context, topicID int64) (*TopicLeaderboardStats, error) {
	entries, err := s.TopicLeaderboard(ctx, topicID)
	if err != nil {
		return nil, err
	}

	stats := &TopicLeaderboardStats{TopicID: topicID, TotalParticipants: len(entries)}
	if len(entries) == 0 {
		stats.TopPerformers = []*domain.Leaderboard{}
		return stats, nil
	}

	averages := lo.Map(entries, func(e *domain.Leaderboard, _ int) float64 { return e.AverageScore })
	stats.TotalTests = lo.SumBy(entries, func(e *domain.Leaderboard) int { return e.TestsCompleted })
	stats.AverageScore = lo.Sum(averages) / float64(len(averages))
	stats.HighestScore = entries[0].AverageScore
	stats.ScoreDistribution = Distribute(averages)

	top := entries[:min(topPerformersLen, len(entries))]
	stats.TopPerformers = lo.Map(top, func(e *domain.Leaderboard, i int) *domain.Leaderboard {
		cp := *e
		cp.Rank = i + 1
		return &cp
	})
	return stats, nil
}

func (s *LeaderboardService) UserStatistics(ctx context.Context, userID int64) (*UserLeaderboardStats, error) {
	es, err := s.boards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, err
	}
	names := lo.SliceToMap(topics, func(t models.VocabularyTopic) (int64, string) { return t.ID, t.Name })

	stats := &UserLeaderboardStats{Topics: make([]*UserTopicStanding, 0, len(es))}
	var totalScore float64
	for _, e := range es {
		info, err := s.UserRank(ctx, userID, e.TopicID)
		if err != nil {
			return nil, err
		}
		standing := &UserTopicStanding{
			TopicID:           e.TopicID,
			TopicName:         names[e.TopicID],
			TotalScore:        e.TotalScore,
			TestsCompleted:    e.TestsCompleted,
			AverageScore:      e.AverageScore,
			TotalParticipants: info.TotalParticipants,
			Percentile:        info.Percentile,
		}
		if info.Rank != nil {
			standing.Rank = *info.Rank
			if stats.BestRank == nil || *info.Rank < *stats.BestRank {
				best := *info.Rank
				stats.BestRank = &best
			}
		}
		stats.Topics = append(stats.Topics, standing)
		stats.TotalTestsCompleted += e.TestsCompleted
		totalScore += e.TotalScore
	}

	stats.TotalTopicsParticipated = len(es)
	if stats.TotalTestsCompleted > 0 {
		stats.AverageScoreOverall = totalScore / float64(stats.TotalTestsCompleted)
	}
	return stats, nil
}
