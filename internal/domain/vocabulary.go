package domain

import (
	"database/sql"
	"strings"
	"time"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

// Vocabulary is a word with its meaning and pronunciation.
// AudioPath is empty until the audio generator has synthesized the word.
type Vocabulary struct {
	ID        int64
	TopicID   int64
	Word      string
	Meaning   string
	Phonetic  string
	AudioPath string
	CreatedAt time.Time
}

func (v *Vocabulary) Validate() error {
	if v.TopicID <= 0 {
		return apperr.Validation("Topic ID is required")
	}
	if strings.TrimSpace(v.Word) == "" {
		return apperr.Validation("Word is required")
	}
	if strings.TrimSpace(v.Meaning) == "" {
		return apperr.Validation("Meaning is required")
	}
	return nil
}

// FormatExample returns the phonetic line with the word marked in bold markdown.
func (v *Vocabulary) FormatExample() string {
	if v.Phonetic == "" || v.Word == "" {
		return v.Phonetic
	}
	return strings.ReplaceAll(v.Phonetic, v.Word, "**"+v.Word+"**")
}

func VocabularyFromEntity(e *models.Vocabulary) *Vocabulary {
	return &Vocabulary{
		ID:        e.ID,
		TopicID:   e.TopicID,
		Word:      e.Word,
		Meaning:   e.Meaning,
		Phonetic:  e.Phonetic,
		AudioPath: e.AudioPath.String,
		CreatedAt: e.CreatedAt,
	}
}

func (v *Vocabulary) ToEntity() *models.Vocabulary {
	return &models.Vocabulary{
		ID:        v.ID,
		TopicID:   v.TopicID,
		Word:      v.Word,
		Meaning:   v.Meaning,
		Phonetic:  v.Phonetic,
		AudioPath: sql.NullString{String: v.AudioPath, Valid: v.AudioPath != ""},
		CreatedAt: v.CreatedAt,
	}
}
