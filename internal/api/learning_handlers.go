package api

import (
	"net/http"

	"vocab-learning/internal/domain"
)

// --- Topics and vocabularies ---

func (h *ApiHandler) GetTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.Topics.List(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(topics, newTopicView))
}

func (h *ApiHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	topic, err := h.svc.Topics.Get(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTopicView(topic))
}

func (h *ApiHandler) GetTopicVocabularies(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	vocabs, err := h.svc.Vocabularies.ListByTopic(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(vocabs, newVocabularyView))
}

func (h *ApiHandler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vocabulary_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	vocab, err := h.svc.Vocabularies.Get(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newVocabularyView(vocab))
}

func (h *ApiHandler) SearchVocabularies(w http.ResponseWriter, r *http.Request) {
	vocabs, err := h.svc.Vocabularies.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(vocabs, newVocabularyView))
}

// --- Tests ---

func (h *ApiHandler) GetTopicTests(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	tests, err := h.svc.Tests.ListByTopic(r.Context(), topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(tests, newTestView))
}

func (h *ApiHandler) GetTest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "test_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	test, err := h.svc.Tests.Get(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newTestView(test))
}

func (h *ApiHandler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	// 1. Caller and topic
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

	// 2. Body
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	sub, err := req.toSubmission(userID, topicID)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	// 3. Grade and store
	res, err := h.svc.Tests.Submit(r.Context(), sub)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	h.metrics.RecordSubmission(topicID, res.Score)

	respondWithJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Test submitted successfully",
		Result: submissionView{
			ID:             res.ResultID,
			Score:          res.Score,
			CorrectAnswers: res.CorrectAnswers,
			TotalQuestions: res.TotalQuestions,
			CompletionTime: res.CompletionTime,
			Grade:          res.Grade,
		},
	})
}

// --- Results ---

func (h *ApiHandler) GetUserResults(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	results, err := h.svc.Results.ListByUser(r.Context(), userID)
	h.respondWithResults(w, r, results, err)
}

func (h *ApiHandler) GetTopicResults(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topic_id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	results, err := h.svc.Results.ListByTopic(r.Context(), topicID)
	h.respondWithResults(w, r, results, err)
}

func (h *ApiHandler) GetUserTopicResults(w http.ResponseWriter, r *http.Request) {
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
	results, err := h.svc.Results.ListByUserAndTopic(r.Context(), userID, topicID)
	h.respondWithResults(w, r, results, err)
}

func (h *ApiHandler) respondWithResults(w http.ResponseWriter, r *http.Request, results []*domain.TestResult, err error) {
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, viewsOf(results, newResultView))
}
