package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"vocab-learning/internal/domain"
	"vocab-learning/internal/service"
)

type TopicEnsurer interface {
	Ensure(ctx context.Context, name, description string) (*domain.VocabularyTopic, error)
}

type VocabularyWriter interface {
	ListByTopic(ctx context.Context, topicID int64) ([]*domain.Vocabulary, error)
	Create(ctx context.Context, v *domain.Vocabulary) (*domain.Vocabulary, error)
}

type TestWriter interface {
	ListByTopic(ctx context.Context, topicID int64) ([]*domain.Test, error)
	Create(ctx context.Context, t *domain.Test) (*domain.Test, error)
}

// Result counts what a Load call wrote.
type Result struct {
	Topics       int
	Vocabularies int
	Tests        int
	Skipped      int
}

type Loader struct {
	topics TopicEnsurer
	vocabs VocabularyWriter
	tests  TestWriter
	tx     service.Transactor
	log    logrus.FieldLogger
}

func NewLoader(topics TopicEnsurer, vocabs VocabularyWriter, tests TestWriter, tx service.Transactor, log logrus.FieldLogger) *Loader {
	return &Loader{topics: topics, vocabs: vocabs, tests: tests, tx: tx, log: log}
}

// topicState tracks what already exists under one topic so reruns skip it.
type topicState struct {
	id        int64
	words     map[string]bool
	questions map[string]bool
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Load writes ds in one transaction. Topics are upserted by name; a word or
// question that already exists in its topic is skipped.
func (l *Loader) Load(ctx context.Context, ds *Dataset) (*Result, error) {
	res := &Result{}
	err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
		*res = Result{}
		topics := make(map[string]*topicState)

		topic := func(name, description string) (*topicState, error) {
			if st, ok := topics[key(name)]; ok && description == "" {
				return st, nil
			}
			t, err := l.topics.Ensure(ctx, name, description)
			if err != nil {
				return nil, fmt.Errorf("topic %q: %w", name, err)
			}
			if st, ok := topics[key(name)]; ok {
				return st, nil
			}
			st, err := l.loadState(ctx, t.ID)
			if err != nil {
				return nil, err
			}
			topics[key(name)] = st
			res.Topics++
			return st, nil
		}

		// 1. Topics
		for _, row := range ds.Topics {
			if _, err := topic(row.Name, row.Description); err != nil {
				return err
			}
		}

		// 2. Vocabularies
		for _, row := range ds.Vocabularies {
			st, err := topic(row.Topic, "")
			if err != nil {
				return err
			}
			if st.words[key(row.Word)] {
				res.Skipped++
				continue
			}
			_, err = l.vocabs.Create(ctx, &domain.Vocabulary{
				TopicID:  st.id,
				Word:     row.Word,
				Meaning:  row.Meaning,
				Phonetic: row.Phonetic,
			})
			if err != nil {
				return fmt.Errorf("vocabulary %q: %w", row.Word, err)
			}
			st.words[key(row.Word)] = true
			res.Vocabularies++
		}

		// 3. Tests
		for _, row := range ds.Tests {
			st, err := topic(row.Topic, "")
			if err != nil {
				return err
			}
			if st.questions[key(row.Question)] {
				res.Skipped++
				continue
			}
			_, err = l.tests.Create(ctx, &domain.Test{
				TopicID:       st.id,
				Question:      row.Question,
				CorrectAnswer: row.CorrectAnswer,
				Option1:       row.Option1,
				Option2:       row.Option2,
				Option3:       row.Option3,
			})
			if err != nil {
				return fmt.Errorf("test %q: %w", row.Question, err)
			}
			st.questions[key(row.Question)] = true
			res.Tests++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"topics":       res.Topics,
		"vocabularies": res.Vocabularies,
		"tests":        res.Tests,
		"skipped":      res.Skipped,
	}).Info("seed data loaded")
	return res, nil
}

func (l *Loader) loadState(ctx context.Context, topicID int64) (*topicState, error) {
	st := &topicState{id: topicID, words: map[string]bool{}, questions: map[string]bool{}}

	vocabs, err := l.vocabs.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	for _, v := range vocabs {
		st.words[key(v.Word)] = true
	}

	tests, err := l.tests.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	for _, t := range tests {
		st.questions[key(t.Question)] = true
	}
	return st, nil
}
