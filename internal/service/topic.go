package service

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/models"
)

type TopicService struct {
	topics TopicStore
}

func NewTopicService(topics TopicStore) *TopicService {
	return &TopicService{topics: topics}
}

func (s *TopicService) List(ctx context.Context) ([]*domain.VocabularyTopic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(topics, func(t models.VocabularyTopic, _ int) *domain.VocabularyTopic {
		return domain.TopicFromEntity(&t)
	}), nil
}

func (s *TopicService) Get(ctx context.Context, id int64) (*domain.VocabularyTopic, error) {
	t, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.TopicFromEntity(t), nil
}

func (s *TopicService) Create(ctx context.Context, name, description string) (*domain.VocabularyTopic, error) {
	topic := &domain.VocabularyTopic{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	entity := topic.ToEntity()
	if err := s.topics.Create(ctx, entity); err != nil {
		return nil, err
	}
	topic.ID = entity.ID
	return topic, nil
}

// Ensure returns the topic with the given name, creating it when missing.
// An existing topic gets its description refreshed when one is given.
func (s *TopicService) Ensure(ctx context.Context, name, description string) (*domain.VocabularyTopic, error) {
	existing, err := s.topics.GetByName(ctx, strings.TrimSpace(name))
	switch {
	case err == nil:
		topic := domain.TopicFromEntity(existing)
		if d := strings.TrimSpace(description); d != "" && d != topic.Description {
			return s.Update(ctx, topic.ID, topic.Name, d)
		}
		return topic, nil
	case apperr.Is(err, apperr.KindNotFound):
		return s.Create(ctx, name, description)
	default:
		return nil, err
	}
}

func (s *TopicService) Update(ctx context.Context, id int64, name, description string) (*domain.VocabularyTopic, error) {
	topic := &domain.VocabularyTopic{ID: id, Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if err := s.topics.Update(ctx, topic.ToEntity()); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) Delete(ctx context.Context, id int64) error {
	return s.topics.Delete(ctx, id)
}
