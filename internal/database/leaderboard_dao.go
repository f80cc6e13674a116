package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectLeaderboard = `SELECT l.id, l.user_id, l.topic_id, l.total_score, l.tests_completed,
	l.average_score, l.last_updated, u.username
	FROM leaderboards l JOIN users u ON u.id = l.user_id`

// Ties are broken by user id so listings are stable.
const leaderboardOrder = ` ORDER BY l.average_score DESC, l.user_id ASC`

// The running mean is computed from the stored row inside the statement, so
// concurrent submissions for the same pair cannot lose an update.
const upsertLeaderboard = `INSERT INTO leaderboards (user_id, topic_id, total_score, tests_completed, average_score, last_updated)
	VALUES (:user_id, :topic_id, :score, 1, :score, :now)
	ON CONFLICT (user_id, topic_id) DO UPDATE SET
		total_score = leaderboards.total_score + excluded.total_score,
		tests_completed = leaderboards.tests_completed + 1,
		average_score = (leaderboards.total_score + excluded.total_score) / (leaderboards.tests_completed + 1),
		last_updated = excluded.last_updated
	RETURNING id, total_score, tests_completed, average_score`

type LeaderboardDAO struct {
	db *DB
}

func NewLeaderboardDAO(db *DB) *LeaderboardDAO {
	return &LeaderboardDAO{db: db}
}

// RecordScore adds one test score to the (user, topic) aggregate and returns the new row.
func (d *LeaderboardDAO) RecordScore(ctx context.Context, userID, topicID int64, score float64, at time.Time) (*models.Leaderboard, error) {
	q := d.db.ext(ctx)
	query, args, err := q.BindNamed(upsertLeaderboard, map[string]any{
		"user_id":  userID,
		"topic_id": topicID,
		"score":    score,
		"now":      at,
	})
	if err != nil {
		return nil, apperr.Database("failed to build leaderboard update", err)
	}

	entry := &models.Leaderboard{UserID: userID, TopicID: topicID, LastUpdated: at}
	err = q.QueryRowxContext(ctx, query, args...).Scan(&entry.ID, &entry.TotalScore, &entry.TestsCompleted, &entry.AverageScore)
	if err != nil {
		return nil, apperr.Database("failed to update leaderboard", err)
	}
	return entry, nil
}

func (d *LeaderboardDAO) GetByUserAndTopic(ctx context.Context, userID, topicID int64) (*models.Leaderboard, error) {
	var l models.Leaderboard
	err := d.db.get(ctx, &l, selectLeaderboard+` WHERE l.user_id = ? AND l.topic_id = ?`, userID, topicID)
	if err != nil {
		return nil, lookupError(err,
			apperr.NotFound("No leaderboard entry for user %d in topic %d", userID, topicID),
			"failed to get leaderboard entry")
	}
	return &l, nil
}

// ListByTopic returns every entry of a topic, best average first.
func (d *LeaderboardDAO) ListByTopic(ctx context.Context, topicID int64) ([]models.Leaderboard, error) {
	entries := []models.Leaderboard{}
	if err := d.db.selectAll(ctx, &entries, selectLeaderboard+` WHERE l.topic_id = ?`+leaderboardOrder, topicID); err != nil {
		return nil, apperr.Database("failed to list leaderboard", err)
	}
	return entries, nil
}

// TopScores is ListByTopic limited to the first limit entries.
func (d *LeaderboardDAO) TopScores(ctx context.Context, topicID int64, limit int) ([]models.Leaderboard, error) {
	entries := []models.Leaderboard{}
	err := d.db.selectAll(ctx, &entries, selectLeaderboard+` WHERE l.topic_id = ?`+leaderboardOrder+` LIMIT ?`, topicID, limit)
	if err != nil {
		return nil, apperr.Database("failed to get top scores", err)
	}
	return entries, nil
}

func (d *LeaderboardDAO) ListByUser(ctx context.Context, userID int64) ([]models.Leaderboard, error) {
	entries := []models.Leaderboard{}
	if err := d.db.selectAll(ctx, &entries, selectLeaderboard+` WHERE l.user_id = ? ORDER BY l.topic_id`, userID); err != nil {
		return nil, apperr.Database("failed to list user leaderboard entries", err)
	}
	return entries, nil
}

// UserRank returns the RANK() of the user within the topic. ok is false when
// the user has no entry for that topic.
func (d *LeaderboardDAO) UserRank(ctx context.Context, userID, topicID int64) (rank int, ok bool, err error) {
	var r int64
	err = d.db.get(ctx, &r, `SELECT user_rank FROM (
		SELECT user_id, RANK() OVER (ORDER BY average_score DESC) AS user_rank
		FROM leaderboards WHERE topic_id = ?
	) ranked WHERE user_id = ?`, topicID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperr.Database("failed to get user rank", err)
	}
	return int(r), true, nil
}

func (d *LeaderboardDAO) CountByTopic(ctx context.Context, topicID int64) (int, error) {
	var n int
	if err := d.db.get(ctx, &n, `SELECT COUNT(*) FROM leaderboards WHERE topic_id = ?`, topicID); err != nil {
		return 0, apperr.Database("failed to count leaderboard entries", err)
	}
	return n, nil
}
