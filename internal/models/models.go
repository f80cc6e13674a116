package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table. Password holds the bcrypt hash.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

// VocabularyTopic groups vocabularies and tests (e.g. "Animals", "Travel").
type VocabularyTopic struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Vocabulary is one word of a topic.
type Vocabulary struct {
	ID        int64          `db:"id"`
	TopicID   int64          `db:"topic_id"`
	Word      string         `db:"word"`
	Meaning   string         `db:"meaning"`
	Phonetic  string         `db:"phonetic"`
	AudioPath sql.NullString `db:"audio_path"`
	CreatedAt time.Time      `db:"created_at"`
}

// Test is one multiple-choice question: the correct answer plus three distractors.
type Test struct {
	ID            int64  `db:"id"`
	TopicID       int64  `db:"topic_id"`
	Question      string `db:"question"`
	CorrectAnswer string `db:"correct_answer"`
	Option1       string `db:"option1"`
	Option2       string `db:"option2"`
	Option3       string `db:"option3"`
}

// TestResult is one submission. Score is a percentage in [0, 100].
type TestResult struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	TopicID        int64     `db:"topic_id"`
	Score          float64   `db:"score"`
	CompletionTime int       `db:"completion_time"`
	CreatedAt      time.Time `db:"created_at"`
}

// Leaderboard is the running aggregate for one (user, topic) pair.
// Username is only filled by queries that join users.
type Leaderboard struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	TopicID        int64     `db:"topic_id"`
	TotalScore     float64   `db:"total_score"`
	TestsCompleted int       `db:"tests_completed"`
	AverageScore   float64   `db:"average_score"`
	LastUpdated    time.Time `db:"last_updated"`
	Username       string    `db:"username"`
}
