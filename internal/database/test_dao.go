package database

import (
	"context"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectTest = `SELECT id, topic_id, question, correct_answer, option1, option2, option3 FROM tests`

type TestDAO struct {
	db *DB
}

func NewTestDAO(db *DB) *TestDAO {
	return &TestDAO{db: db}
}

func (d *TestDAO) ListByTopic(ctx context.Context, topicID int64) ([]models.Test, error) {
	tests := []models.Test{}
	if err := d.db.selectAll(ctx, &tests, selectTest+` WHERE topic_id = ? ORDER BY id`, topicID); err != nil {
		return nil, apperr.Database("failed to list tests", err)
	}
	return tests, nil
}

func (d *TestDAO) GetByID(ctx context.Context, id int64) (*models.Test, error) {
	var t models.Test
	if err := d.db.get(ctx, &t, selectTest+` WHERE id = ?`, id); err != nil {
		return nil, lookupError(err, apperr.NotFound("Test with id %d not found", id), "failed to get test")
	}
	return &t, nil
}

func (d *TestDAO) Create(ctx context.Context, t *models.Test) error {
	id, err := d.db.insertReturningID(ctx,
		`INSERT INTO tests (topic_id, question, correct_answer, option1, option2, option3)
		 VALUES (:topic_id, :question, :correct_answer, :option1, :option2, :option3) RETURNING id`, t)
	if err != nil {
		return apperr.Database("failed to create test", err)
	}
	t.ID = id
	return nil
}

func (d *TestDAO) Update(ctx context.Context, t *models.Test) error {
	n, err := d.db.exec(ctx,
		`UPDATE tests SET topic_id = ?, question = ?, correct_answer = ?, option1 = ?, option2 = ?, option3 = ? WHERE id = ?`,
		t.TopicID, t.Question, t.CorrectAnswer, t.Option1, t.Option2, t.Option3, t.ID)
	if err != nil {
		return apperr.Database("failed to update test", err)
	}
	if n == 0 {
		return apperr.NotFound("Test with id %d not found", t.ID)
	}
	return nil
}

func (d *TestDAO) Delete(ctx context.Context, id int64) error {
	n, err := d.db.exec(ctx, `DELETE FROM tests WHERE id = ?`, id)
	if err != nil {
		return apperr.Database("failed to delete test", err)
	}
	if n == 0 {
		return apperr.NotFound("Test with id %d not found", id)
	}
	return nil
}
