package domain

import (
	"math/rand/v2"
	"strings"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

// Test is a multiple-choice question of a topic.
type Test struct {
	ID            int64
	TopicID       int64
	Question      string
	CorrectAnswer string
	Option1       string
	Option2       string
	Option3       string
}

// CheckAnswer compares case-insensitively, ignoring surrounding whitespace.
func (t *Test) CheckAnswer(answer string) bool {
	return normalizeAnswer(answer) == normalizeAnswer(t.CorrectAnswer)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (t *Test) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"question", t.Question},
		{"correct_answer", t.CorrectAnswer},
		{"option1", t.Option1},
		{"option2", t.Option2},
		{"option3", t.Option3},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if t.TopicID <= 0 {
		return apperr.Validation("Topic ID is required")
	}
	return nil
}

// Options returns the correct answer followed by the three distractors.
func (t *Test) Options() []string {
	return []string{t.CorrectAnswer, t.Option1, t.Option2, t.Option3}
}

// ShuffledOptions returns Options in random order. A nil rng uses the global source.
func (t *Test) ShuffledOptions(rng *rand.Rand) []string {
	opts := t.Options()
	swap := func(i, j int) { opts[i], opts[j] = opts[j], opts[i] }
	if rng == nil {
		rand.Shuffle(len(opts), swap)
	} else {
		rng.Shuffle(len(opts), swap)
	}
	return opts
}

func TestFromEntity(e *models.Test) *Test {
	return &Test{
		ID:            e.ID,
		TopicID:       e.TopicID,
		Question:      e.Question,
		CorrectAnswer: e.CorrectAnswer,
		Option1:       e.Option1,
		Option2:       e.Option2,
		Option3:       e.Option3,
	}
}

func (t *Test) ToEntity() *models.Test {
	return &models.Test{
		ID:            t.ID,
		TopicID:       t.TopicID,
		Question:      t.Question,
		CorrectAnswer: t.CorrectAnswer,
		Option1:       t.Option1,
		Option2:       t.Option2,
		Option3:       t.Option3,
	}
}
