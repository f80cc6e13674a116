package api

import (
	"net/http"
)

func (h *ApiHandler) GetTopicLeaderboard(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	entries, err := h.svc.Leaderboard.TopicLeaderboard(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(entries, newLeaderboardView))
}

func (h *ApiHandler) GetUserRank(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	info, err := h.svc.Leaderboard.UserRank(r.Context(), userID, topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}

func (h *ApiHandler) GetTopUsers(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	entries, err := h.svc.Leaderboard.TopUsers(r.Context(), topicID, limit)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(entries, newLeaderboardView))
}

// --- Statistics ---

func (h *ApiHandler) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	testStats, err := h.svc.Results.UserStatistics(r.Context(), userID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	boardStats, err := h.svc.Leaderboard.UserStatistics(r.Context(), userID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, statisticsResponse{
		TestStatistics:        testStats,
		LeaderboardStatistics: boardStats,
	})
}

func (h *ApiHandler) GetTopicStatistics(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	boardStats, err := h.svc.Leaderboard.TopicStatistics(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	testStats, err := h.svc.Results.TopicStatistics(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, statisticsResponse{
		TestStatistics: testStats,
		LeaderboardStatistics: topicLeaderboardStatsView{
			TopicLeaderboardStats: boardStats,
			TopPerformers:         viewsOf(boardStats.TopPerformers, newLeaderboardView),
		},
	})
}
