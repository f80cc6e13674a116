package domain

import (
	"strings"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

type VocabularyTopic struct {
	ID          int64
	Name        string
	Description string
}

func (t *VocabularyTopic) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Validation("Topic name is required")
	}
	if len(t.Name) > 255 {
		return apperr.Validation("Topic name must be between 1 and 255 characters")
	}
	return nil
}

func TopicFromEntity(e *models.VocabularyTopic) *VocabularyTopic {
	return &VocabularyTopic{ID: e.ID, Name: e.Name, Description: e.Description}
}

func (t *VocabularyTopic) ToEntity() *models.VocabularyTopic {
	return &models.VocabularyTopic{ID: t.ID, Name: t.Name, Description: t.Description}
}
