package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/models"
)

// ResultRecorder persists a graded submission.
type ResultRecorder interface {
	Record(ctx context.Context, r *domain.TestResult) error
}

// ScoreRecorder folds a score into the leaderboard aggregate.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, userID, topicID int64, score float64, at time.Time) (*domain.Leaderboard, error)
}

// Submission is a user's answers for one topic, keyed by test id.
type Submission struct {
	UserID         int64
	TopicID        int64
	Answers        map[int64]string
	CompletionTime int
}

type SubmissionResult struct {
	ResultID       int64
	Score          float64
	CorrectAnswers int
	TotalQuestions int
	CompletionTime int
	Grade          string
	Leaderboard    *domain.Leaderboard
}

type TestService struct {
	tests       TestStore
	topics      TopicStore
	results     ResultRecorder
	leaderboard ScoreRecorder
	tx          Transactor
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewTestService(tests TestStore, topics TopicStore, results ResultRecorder, leaderboard ScoreRecorder, tx Transactor, log logrus.FieldLogger) *TestService {
	return &TestService{
		tests:       tests,
		topics:      topics,
		results:     results,
		leaderboard: leaderboard,
		tx:          tx,
		log:         log,
		now:         time.Now,
	}
}

func (s *TestService) listTests(ctx context.Context, topicID int64) ([]*domain.Test, error) {
	tests, err := s.tests.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return lo.Map(tests, func(t models.Test, _ int) *domain.Test {
		return domain.TestFromEntity(&t)
	}), nil
}

// ListByTopic fails with NotFound when the topic does not exist.
func (s *TestService) ListByTopic(ctx context.Context, topicID int64) ([]*domain.Test, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	return s.listTests(ctx, topicID)
}

func (s *TestService) Get(ctx context.Context, id int64) (*domain.Test, error) {
	t, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.TestFromEntity(t), nil
}

func (s *TestService) Create(ctx context.Context, t *domain.Test) (*domain.Test, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.topics.GetByID(ctx, t.TopicID); err != nil {
		return nil, err
	}
	entity := t.ToEntity()
	if err := s.tests.Create(ctx, entity); err != nil {
		return nil, err
	}
	t.ID = entity.ID
	return t, nil
}

func (s *TestService) Update(ctx context.Context, t *domain.Test) (*domain.Test, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.tests.Update(ctx, t.ToEntity()); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) Delete(ctx context.Context, id int64) error {
	return s.tests.Delete(ctx, id)
}

// Submit grades the answers against every test of the topic, then stores the
// result and updates the leaderboard in one transaction.
func (s *TestService) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	if sub.CompletionTime < 0 {
		return nil, apperr.Validation("completion_time must be greater than or equal to 0")
	}

	tests, err := s.listTests(ctx, sub.TopicID)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, apperr.NotFound("No tests found for this topic")
	}

	score, invalid := ScoreAnswers(tests, sub.Answers)
	if len(invalid) > 0 {
		return nil, apperr.Validation("Invalid test IDs: %v", invalid).WithDetails("invalid_test_ids", invalid)
	}

	result := &domain.TestResult{
		UserID:         sub.UserID,
		TopicID:        sub.TopicID,
		Score:          score.Percent,
		CompletionTime: sub.CompletionTime,
		CreatedAt:      s.now().UTC(),
	}

	var entry *domain.Leaderboard
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.results.Record(ctx, result); err != nil {
			return err
		}
		var recErr error
		entry, recErr = s.leaderboard.RecordScore(ctx, sub.UserID, sub.TopicID, score.Percent, result.CreatedAt)
		return recErr
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  sub.UserID,
		"topic_id": sub.TopicID,
		"score":    score.Percent,
		"correct":  score.Correct,
		"total":    score.Total,
	}).Info("test submitted")

	return &SubmissionResult{
		ResultID:       result.ID,
		Score:          score.Percent,
		CorrectAnswers: score.Correct,
		TotalQuestions: score.Total,
		CompletionTime: sub.CompletionTime,
		Grade:          result.Grade(),
		Leaderboard:    entry,
	}, nil
}
