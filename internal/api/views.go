package api

import (
	"time"

	"github.com/samber/lo"

	"vocab-learning/internal/domain"
	"vocab-learning/internal/service"
)

// Response shapes. Domain types never go to the wire directly, so password
// hashes and correct answers stay server-side.

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserView(u *domain.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type authResponse struct {
	Message string   `json:"message"`
	User    userView `json:"user"`
	Token   string   `json:"token"`
}

type topicView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newTopicView(t *domain.VocabularyTopic) topicView {
	return topicView{ID: t.ID, Name: t.Name, Description: t.Description}
}

type vocabularyView struct {
	ID               int64     `json:"id"`
	TopicID          int64     `json:"topic_id"`
	Word             string    `json:"word"`
	Meaning          string    `json:"meaning"`
	Phonetic         string    `json:"phonetic"`
	AudioPath        string    `json:"audio_path,omitempty"`
	FormattedExample string    `json:"formatted_example"`
	CreatedAt        time.Time `json:"created_at"`
}

func newVocabularyView(v *domain.Vocabulary) vocabularyView {
	return vocabularyView{
		ID:               v.ID,
		TopicID:          v.TopicID,
		Word:             v.Word,
		Meaning:          v.Meaning,
		Phonetic:         v.Phonetic,
		AudioPath:        v.AudioPath,
		FormattedExample: v.FormatExample(),
		CreatedAt:        v.CreatedAt,
	}
}

// testView is the full test plus its options in shuffled order.
type testView struct {
	ID            int64    `json:"id"`
	TopicID       int64    `json:"topic_id"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Option1       string   `json:"option1"`
	Option2       string   `json:"option2"`
	Option3       string   `json:"option3"`
	Options       []string `json:"options"`
}

func newTestView(t *domain.Test) testView {
	return testView{
		ID:            t.ID,
		TopicID:       t.TopicID,
		Question:      t.Question,
		CorrectAnswer: t.CorrectAnswer,
		Option1:       t.Option1,
		Option2:       t.Option2,
		Option3:       t.Option3,
		Options:       t.ShuffledOptions(nil),
	}
}

type resultView struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	TopicID        int64     `json:"topic_id"`
	Score          float64   `json:"score"`
	CompletionTime int       `json:"completion_time"`
	Grade          string    `json:"grade"`
	CreatedAt      time.Time `json:"created_at"`
}

func newResultView(r *domain.TestResult) resultView {
	return resultView{
		ID:             r.ID,
		UserID:         r.UserID,
		TopicID:        r.TopicID,
		Score:          r.Score,
		CompletionTime: r.CompletionTime,
		Grade:          r.Grade(),
		CreatedAt:      r.CreatedAt,
	}
}

type leaderboardView struct {
	UserID         int64     `json:"user_id"`
	TopicID        int64     `json:"topic_id"`
	Username       string    `json:"username"`
	TotalScore     float64   `json:"total_score"`
	TestsCompleted int       `json:"tests_completed"`
	AverageScore   float64   `json:"average_score"`
	LastUpdated    time.Time `json:"last_updated"`
	Rank           int       `json:"rank"`
	RankLabel      string    `json:"rank_label"`
	Medal          string    `json:"medal,omitempty"`
}

func newLeaderboardView(l *domain.Leaderboard) leaderboardView {
	return leaderboardView{
		UserID:         l.UserID,
		TopicID:        l.TopicID,
		Username:       l.Username,
		TotalScore:     l.TotalScore,
		TestsCompleted: l.TestsCompleted,
		AverageScore:   l.AverageScore,
		LastUpdated:    l.LastUpdated,
		Rank:           l.Rank,
		RankLabel:      domain.RankLabel(l.Rank),
		Medal:          domain.Medal(l.Rank),
	}
}

type submissionView struct {
	ID             int64   `json:"id"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	CompletionTime int     `json:"completion_time"`
	Grade          string  `json:"grade"`
}

type submitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Result  submissionView `json:"result"`
}

type topicLeaderboardStatsView struct {
	*service.TopicLeaderboardStats
	TopPerformers []leaderboardView `json:"top_performers"`
}

type statisticsResponse struct {
	TestStatistics        *service.ResultStatistics `json:"test_statistics"`
	LeaderboardStatistics any                       `json:"leaderboard_statistics"`
}

// viewsOf maps a slice through fn. It never returns nil so empty
// collections encode as [].
func viewsOf[T, V any](items []T, fn func(T) V) []V {
	if len(items) == 0 {
		return []V{}
	}
	return lo.Map(items, func(item T, _ int) V { return fn(item) })
}
