package domain

import (
	"database/sql"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestEntityRoundTrip(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		e := &models.User{ID: 7, Username: "linh", Email: "linh@example.com", Password: "$2a$10$hash", CreatedAt: fixedTime}
		assert.Equal(t, e, UserFromEntity(e).ToEntity())
	})
	t.Run("topic", func(t *testing.T) {
		e := &models.VocabularyTopic{ID: 2, Name: "Animals", Description: "Common animals"}
		assert.Equal(t, e, TopicFromEntity(e).ToEntity())
	})
	t.Run("vocabulary with audio", func(t *testing.T) {
		e := &models.Vocabulary{
			ID: 3, TopicID: 2, Word: "cat", Meaning: "con mèo", Phonetic: "/kæt/",
			AudioPath: sql.NullString{String: "media/vocab_3.mp3", Valid: true}, CreatedAt: fixedTime,
		}
		assert.Equal(t, e, VocabularyFromEntity(e).ToEntity())
	})
	t.Run("vocabulary without audio", func(t *testing.T) {
		e := &models.Vocabulary{ID: 4, TopicID: 2, Word: "dog", Meaning: "con chó", CreatedAt: fixedTime}
		assert.Equal(t, e, VocabularyFromEntity(e).ToEntity())
	})
	t.Run("test", func(t *testing.T) {
		e := &models.Test{ID: 9, TopicID: 2, Question: "cat?", CorrectAnswer: "con mèo", Option1: "a", Option2: "b", Option3: "c"}
		assert.Equal(t, e, TestFromEntity(e).ToEntity())
	})
	t.Run("test result", func(t *testing.T) {
		e := &models.TestResult{ID: 11, UserID: 7, TopicID: 2, Score: 66.66666666666667, CompletionTime: 95, CreatedAt: fixedTime}
		assert.Equal(t, e, TestResultFromEntity(e).ToEntity())
	})
	t.Run("leaderboard", func(t *testing.T) {
		e := &models.Leaderboard{
			ID: 5, UserID: 7, TopicID: 2, TotalScore: 150, TestsCompleted: 2,
			AverageScore: 75, LastUpdated: fixedTime, Username: "linh",
		}
		assert.Equal(t, e, LeaderboardFromEntity(e).ToEntity())
	})
}

func TestCheckAnswer(t *testing.T) {
	test := &Test{CorrectAnswer: "  Con Mèo "}

	assert.True(t, test.CheckAnswer("con mèo"))
	assert.True(t, test.CheckAnswer("CON MÈO\t"))
	assert.False(t, test.CheckAnswer("con chó"))
	assert.False(t, test.CheckAnswer(""))
}

func TestTestValidate(t *testing.T) {
	valid := &Test{TopicID: 1, Question: "q", CorrectAnswer: "a", Option1: "b", Option2: "c", Option3: "d"}
	require.NoError(t, valid.Validate())

	invalid := *valid
	invalid.Option2 = "   "
	invalid.Question = ""
	err := invalid.Validate()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Missing required fields: question, option2", err.Error())
}

func TestShuffledOptions(t *testing.T) {
	test := &Test{CorrectAnswer: "a", Option1: "b", Option2: "c", Option3: "d"}

	opts := test.ShuffledOptions(rand.New(rand.NewPCG(1, 2)))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, opts)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, test.ShuffledOptions(nil))
	assert.Equal(t, []string{"a", "b", "c", "d"}, test.Options())
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 90.0, Percentile(1, 10))
	assert.Equal(t, 0.0, Percentile(10, 10))
	assert.Equal(t, 50.0, Percentile(2, 4))
	assert.Equal(t, 0.0, Percentile(1, 0))
}

func TestRankLabelAndMedal(t *testing.T) {
	labels := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 112: "112th", 103: "103rd"}
	for rank, want := range labels {
		assert.Equal(t, want, RankLabel(rank))
	}
	assert.Equal(t, "gold", Medal(1))
	assert.Equal(t, "bronze", Medal(3))
	assert.Empty(t, Medal(4))
}

func TestTestResultHelpers(t *testing.T) {
	results := []*TestResult{
		{Score: 100, CompletionTime: 60},
		{Score: 50, CompletionTime: 120},
		{Score: 75, CompletionTime: 30},
	}
	assert.InDelta(t, 75.0, AverageScore(results), 1e-9)
	assert.InDelta(t, 70.0, AverageCompletionTime(results), 1e-9)
	assert.Zero(t, AverageScore(nil))
	assert.Zero(t, AverageCompletionTime(nil))

	assert.Equal(t, 1.5, (&TestResult{CompletionTime: 90}).CompletionMinutes())
	grades := map[float64]string{95: "A", 90: "A", 85: "B", 70: "C", 60: "D", 59.9: "F"}
	for score, want := range grades {
		assert.Equal(t, want, (&TestResult{Score: score}).Grade())
	}

	assert.Error(t, (&TestResult{UserID: 1, TopicID: 1, Score: 101}).Validate())
	assert.NoError(t, (&TestResult{UserID: 1, TopicID: 1, Score: 100}).Validate())
}

func TestUserPassword(t *testing.T) {
	u, err := NewUser("linh_01", "linh@example.com", "Secret#123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Secret#123", u.PasswordHash)
	assert.True(t, u.VerifyPassword("Secret#123"))
	assert.False(t, u.VerifyPassword("secret#123"))
	assert.NoError(t, u.Validate())

	plain := &User{Username: "linh_01", Email: "linh@example.com", PasswordHash: "Secret#123"}
	assert.Error(t, plain.Validate())
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     string
	}{
		{"short username", "ab", "a@b.co", "Secret#123", "Username must be 3-50 characters"},
		{"bad email", "linh", "linh.example.com", "Secret#123", "Invalid email format"},
		{"short password", "linh", "a@b.co", "S#1a", "at least 8 characters"},
		{"no upper", "linh", "a@b.co", "secret#123", "uppercase"},
		{"no lower", "linh", "a@b.co", "SECRET#123", "lowercase"},
		{"no digit", "linh", "a@b.co", "Secret#abc", "number"},
		{"no special", "linh", "a@b.co", "Secret1234", "special character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password, bcrypt.MinCost)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVocabulary(t *testing.T) {
	v := &Vocabulary{TopicID: 1, Word: "cat", Meaning: "con mèo", Phonetic: "the cat sat"}
	assert.NoError(t, v.Validate())
	assert.Equal(t, "the **cat** sat", v.FormatExample())

	assert.Error(t, (&Vocabulary{Word: "cat", Meaning: "m"}).Validate())
	assert.Error(t, (&Vocabulary{TopicID: 1, Meaning: "m"}).Validate())
	assert.Empty(t, (&Vocabulary{Word: "cat"}).FormatExample())
}

func TestTopicValidate(t *testing.T) {
	assert.NoError(t, (&VocabularyTopic{Name: "Animals"}).Validate())
	assert.Error(t, (&VocabularyTopic{Name: "  "}).Validate())
}
