package service

import (
	"context"
	"time"

	"vocab-learning/internal/models"
)

// The store interfaces below are satisfied by the DAOs in internal/database.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type TopicStore interface {
	List(ctx context.Context) ([]models.VocabularyTopic, error)
	GetByID(ctx context.Context, id int64) (*models.VocabularyTopic, error)
	GetByName(ctx context.Context, name string) (*models.VocabularyTopic, error)
	Create(ctx context.Context, t *models.VocabularyTopic) error
	Update(ctx context.Context, t *models.VocabularyTopic) error
	Delete(ctx context.Context, id int64) error
}

type VocabularyStore interface {
	ListByTopic(ctx context.Context, topicID int64) ([]models.Vocabulary, error)
	GetByID(ctx context.Context, id int64) (*models.Vocabulary, error)
	Search(ctx context.Context, keyword string) ([]models.Vocabulary, error)
	Create(ctx context.Context, v *models.Vocabulary) error
	Update(ctx context.Context, v *models.Vocabulary) error
	Delete(ctx context.Context, id int64) error
}

type TestStore interface {
	ListByTopic(ctx context.Context, topicID int64) ([]models.Test, error)
	GetByID(ctx context.Context, id int64) (*models.Test, error)
	Create(ctx context.Context, t *models.Test) error
	Update(ctx context.Context, t *models.Test) error
	Delete(ctx context.Context, id int64) error
}

type TestResultStore interface {
	Create(ctx context.Context, r *models.TestResult) error
	GetByID(ctx context.Context, id int64) (*models.TestResult, error)
	ListByUser(ctx context.Context, userID int64) ([]models.TestResult, error)
	ListByTopic(ctx context.Context, topicID int64) ([]models.TestResult, error)
	ListByUserAndTopic(ctx context.Context, userID, topicID int64) ([]models.TestResult, error)
	Delete(ctx context.Context, id int64) error
}

type LeaderboardStore interface {
	RecordScore(ctx context.Context, userID, topicID int64, score float64, at time.Time) (*models.Leaderboard, error)
	GetByUserAndTopic(ctx context.Context, userID, topicID int64) (*models.Leaderboard, error)
	ListByTopic(ctx context.Context, topicID int64) ([]models.Leaderboard, error)
	TopScores(ctx context.Context, topicID int64, limit int) ([]models.Leaderboard, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Leaderboard, error)
	UserRank(ctx context.Context, userID, topicID int64) (int, bool, error)
	CountByTopic(ctx context.Context, topicID int64) (int, error)
}

// Transactor runs fn in one store transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
