package database

import (
	"context"
	"strings"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectVocabulary = `SELECT id, topic_id, word, meaning, phonetic, audio_path, created_at FROM vocabularies`

type VocabularyDAO struct {
	db *DB
}

func NewVocabularyDAO(db *DB) *VocabularyDAO {
	return &VocabularyDAO{db: db}
}

func (d *VocabularyDAO) ListByTopic(ctx context.Context, topicID int64) ([]models.Vocabulary, error) {
	vocabs := []models.Vocabulary{}
	if err := d.db.selectAll(ctx, &vocabs, selectVocabulary+` WHERE topic_id = ? ORDER BY id`, topicID); err != nil {
		return nil, apperr.Database("failed to list vocabularies", err)
	}
	return vocabs, nil
}

func (d *VocabularyDAO) GetByID(ctx context.Context, id int64) (*models.Vocabulary, error) {
	var v models.Vocabulary
	if err := d.db.get(ctx, &v, selectVocabulary+` WHERE id = ?`, id); err != nil {
		return nil, lookupError(err, apperr.NotFound("Vocabulary with id %d not found", id), "failed to get vocabulary")
	}
	return &v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches keyword case-insensitively against word and meaning.
// % and _ in keyword match literally.
func (d *VocabularyDAO) Search(ctx context.Context, keyword string) ([]models.Vocabulary, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	vocabs := []models.Vocabulary{}
	err := d.db.selectAll(ctx, &vocabs,
		selectVocabulary+` WHERE LOWER(word) LIKE ? ESCAPE '\' OR LOWER(meaning) LIKE ? ESCAPE '\' ORDER BY id`, pattern, pattern)
	if err != nil {
		return nil, apperr.Database("failed to search vocabularies", err)
	}
	return vocabs, nil
}

// ListMissingAudio returns the words the audio generator still has to synthesize.
func (d *VocabularyDAO) ListMissingAudio(ctx context.Context) ([]models.Vocabulary, error) {
	vocabs := []models.Vocabulary{}
	err := d.db.selectAll(ctx, &vocabs,
		selectVocabulary+` WHERE audio_path IS NULL OR audio_path = '' ORDER BY id`)
	if err != nil {
		return nil, apperr.Database("failed to list vocabularies without audio", err)
	}
	return vocabs, nil
}

func (d *VocabularyDAO) SetAudioPath(ctx context.Context, id int64, path string) error {
	n, err := d.db.exec(ctx, `UPDATE vocabularies SET audio_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return apperr.Database("failed to set audio path", err)
	}
	if n == 0 {
		return apperr.NotFound("Vocabulary with id %d not found", id)
	}
	return nil
}

func (d *VocabularyDAO) Create(ctx context.Context, v *models.Vocabulary) error {
	id, err := d.db.insertReturningID(ctx,
		`INSERT INTO vocabularies (topic_id, word, meaning, phonetic, audio_path, created_at)
		 VALUES (:topic_id, :word, :meaning, :phonetic, :audio_path, :created_at) RETURNING id`, v)
	if err != nil {
		return apperr.Database("failed to create vocabulary", err)
	}
	v.ID = id
	return nil
}

func (d *VocabularyDAO) Update(ctx context.Context, v *models.Vocabulary) error {
	n, err := d.db.exec(ctx,
		`UPDATE vocabularies SET topic_id = ?, word = ?, meaning = ?, phonetic = ?, audio_path = ? WHERE id = ?`,
		v.TopicID, v.Word, v.Meaning, v.Phonetic, v.AudioPath, v.ID)
	if err != nil {
		return apperr.Database("failed to update vocabulary", err)
	}
	if n == 0 {
		return apperr.NotFound("Vocabulary with id %d not found", v.ID)
	}
	return nil
}

func (d *VocabularyDAO) Delete(ctx context.Context, id int64) error {
	n, err := d.db.exec(ctx, `DELETE FROM vocabularies WHERE id = ?`, id)
	if err != nil {
		return apperr.Database("failed to delete vocabulary", err)
	}
	if n == 0 {
		return apperr.NotFound("Vocabulary with id %d not found", id)
	}
	return nil
}
