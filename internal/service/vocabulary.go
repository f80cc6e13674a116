package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/models"
)

type VocabularyService struct {
	vocabs VocabularyStore
	topics TopicStore
	now    func() time.Time
}

func NewVocabularyService(vocabs VocabularyStore, topics TopicStore) *VocabularyService {
	return &VocabularyService{vocabs: vocabs, topics: topics, now: time.Now}
}

func toVocabularies(vs []models.Vocabulary) []*domain.Vocabulary {
	return lo.Map(vs, func(v models.Vocabulary, _ int) *domain.Vocabulary {
		return domain.VocabularyFromEntity(&v)
	})
}

// ListByTopic fails with NotFound when the topic does not exist.
func (s *VocabularyService) ListByTopic(ctx context.Context, topicID int64) ([]*domain.Vocabulary, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	vs, err := s.vocabs.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return toVocabularies(vs), nil
}

func (s *VocabularyService) Get(ctx context.Context, id int64) (*domain.Vocabulary, error) {
	v, err := s.vocabs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.VocabularyFromEntity(v), nil
}

func (s *VocabularyService) Search(ctx context.Context, keyword string) ([]*domain.Vocabulary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validation("Search keyword is required")
	}
	vs, err := s.vocabs.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toVocabularies(vs), nil
}

func (s *VocabularyService) Create(ctx context.Context, v *domain.Vocabulary) (*domain.Vocabulary, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.topics.GetByID(ctx, v.TopicID); err != nil {
		return nil, err
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now().UTC()
	}
	entity := v.ToEntity()
	if err := s.vocabs.Create(ctx, entity); err != nil {
		return nil, err
	}
	v.ID = entity.ID
	return v, nil
}

func (s *VocabularyService) Update(ctx context.Context, v *domain.Vocabulary) (*domain.Vocabulary, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	current, err := s.vocabs.GetByID(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = current.CreatedAt
	if err := s.vocabs.Update(ctx, v.ToEntity()); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VocabularyService) Delete(ctx context.Context, id int64) error {
	return s.vocabs.Delete(ctx, id)
}
