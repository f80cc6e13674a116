package database

import (
	"context"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectTopic = `SELECT id, name, description FROM vocabulary_topics`

type TopicDAO struct {
	db *DB
}

func NewTopicDAO(db *DB) *TopicDAO {
	return &TopicDAO{db: db}
}

func (d *TopicDAO) List(ctx context.Context) ([]models.VocabularyTopic, error) {
	topics := []models.VocabularyTopic{}
	if err := d.db.selectAll(ctx, &topics, selectTopic+` ORDER BY id`); err != nil {
		return nil, apperr.Database("failed to list topics", err)
	}
	return topics, nil
}

func (d *TopicDAO) GetByID(ctx context.Context, id int64) (*models.VocabularyTopic, error) {
	var t models.VocabularyTopic
	if err := d.db.get(ctx, &t, selectTopic+` WHERE id = ?`, id); err != nil {
		return nil, lookupError(err, apperr.NotFound("Topic with id %d not found", id), "failed to get topic")
	}
	return &t, nil
}

func (d *TopicDAO) GetByName(ctx context.Context, name string) (*models.VocabularyTopic, error) {
	var t models.VocabularyTopic
	if err := d.db.get(ctx, &t, selectTopic+` WHERE name = ?`, name); err != nil {
		return nil, lookupError(err, apperr.NotFound("Topic %s not found", name), "failed to get topic")
	}
	return &t, nil
}

func (d *TopicDAO) Create(ctx context.Context, t *models.VocabularyTopic) error {
	id, err := d.db.insertReturningID(ctx,
		`INSERT INTO vocabulary_topics (name, description) VALUES (:name, :description) RETURNING id`, t)
	if err != nil {
		return writeError(err, apperr.Conflict("Topic %s already exists", t.Name), "failed to create topic")
	}
	t.ID = id
	return nil
}

func (d *TopicDAO) Update(ctx context.Context, t *models.VocabularyTopic) error {
	n, err := d.db.exec(ctx, `UPDATE vocabulary_topics SET name = ?, description = ? WHERE id = ?`,
		t.Name, t.Description, t.ID)
	if err != nil {
		return writeError(err, apperr.Conflict("Topic %s already exists", t.Name), "failed to update topic")
	}
	if n == 0 {
		return apperr.NotFound("Topic with id %d not found", t.ID)
	}
	return nil
}

func (d *TopicDAO) Delete(ctx context.Context, id int64) error {
	n, err := d.db.exec(ctx, `DELETE FROM vocabulary_topics WHERE id = ?`, id)
	if err != nil {
		return apperr.Database("failed to delete topic", err)
	}
	if n == 0 {
		return apperr.NotFound("Topic with id %d not found", id)
	}
	return nil
}
