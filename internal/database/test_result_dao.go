package database

import (
	"context"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectTestResult = `SELECT id, user_id, topic_id, score, completion_time, created_at FROM test_results`

// newest first
const testResultOrder = ` ORDER BY created_at DESC, id DESC`

type TestResultDAO struct {
	db *DB
}

func NewTestResultDAO(db *DB) *TestResultDAO {
	return &TestResultDAO{db: db}
}

func (d *TestResultDAO) Create(ctx context.Context, r *models.TestResult) error {
	id, err := d.db.insertReturningID(ctx,
		`INSERT INTO test_results (user_id, topic_id, score, completion_time, created_at)
		 VALUES (:user_id, :topic_id, :score, :completion_time, :created_at) RETURNING id`, r)
	if err != nil {
		return apperr.Database("failed to create test result", err)
	}
	r.ID = id
	return nil
}

func (d *TestResultDAO) GetByID(ctx context.Context, id int64) (*models.TestResult, error) {
	var r models.TestResult
	if err := d.db.get(ctx, &r, selectTestResult+` WHERE id = ?`, id); err != nil {
		return nil, lookupError(err, apperr.NotFound("Test result with id %d not found", id), "failed to get test result")
	}
	return &r, nil
}

func (d *TestResultDAO) ListByUser(ctx context.Context, userID int64) ([]models.TestResult, error) {
	return d.list(ctx, ` WHERE user_id = ?`, userID)
}

func (d *TestResultDAO) ListByTopic(ctx context.Context, topicID int64) ([]models.TestResult, error) {
	return d.list(ctx, ` WHERE topic_id = ?`, topicID)
}

func (d *TestResultDAO) ListByUserAndTopic(ctx context.Context, userID, topicID int64) ([]models.TestResult, error) {
	return d.list(ctx, ` WHERE user_id = ? AND topic_id = ?`, userID, topicID)
}

func (d *TestResultDAO) list(ctx context.Context, where string, args ...any) ([]models.TestResult, error) {
	results := []models.TestResult{}
	if err := d.db.selectAll(ctx, &results, selectTestResult+where+testResultOrder, args...); err != nil {
		return nil, apperr.Database("failed to list test results", err)
	}
	return results, nil
}

// Update rewrites a stored result. Submissions never call it.
func (d *TestResultDAO) Update(ctx context.Context, r *models.TestResult) error {
	n, err := d.db.exec(ctx,
		`UPDATE test_results SET score = ?, completion_time = ? WHERE id = ?`,
		r.Score, r.CompletionTime, r.ID)
	if err != nil {
		return apperr.Database("failed to update test result", err)
	}
	if n == 0 {
		return apperr.NotFound("Test result with id %d not found", r.ID)
	}
	return nil
}

func (d *TestResultDAO) Delete(ctx context.Context, id int64) error {
	n, err := d.db.exec(ctx, `DELETE FROM test_results WHERE id = ?`, id)
	if err != nil {
		return apperr.Database("failed to delete test result", err)
	}
	if n == 0 {
		return apperr.NotFound("Test result with id %d not found", id)
	}
	return nil
}
