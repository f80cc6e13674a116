package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/auth"
	"vocab-learning/internal/metrics"
	"vocab-learning/internal/service"
)

const maxBodyBytes = 1 << 20

// Services groups the business services the handlers call.
type Services struct {
	Users        *service.UserService
	Topics       *service.TopicService
	Vocabularies *service.VocabularyService
	Tests        *service.TestService
	Results      *service.TestResultService
	Leaderboard  *service.LeaderboardService
}

// HealthChecker pings the backing store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ApiHandler holds the dependencies shared by every endpoint.
type ApiHandler struct {
	svc     Services
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	health  HealthChecker
	log     logrus.FieldLogger
}

func NewApiHandler(svc Services, tokens *auth.TokenManager, m *metrics.Metrics, health HealthChecker, log logrus.FieldLogger) *ApiHandler {
	return &ApiHandler{svc: svc, tokens: tokens, metrics: m, health: health, log: log}
}

// Health reports ok once the store answers a ping.
func (h *ApiHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Health(r.Context()); err != nil {
		loggerFrom(r.Context(), h.log).WithError(err).Error("health check failed")
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helpers ---

type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"error":"Internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithAppError maps err to its status and public message. Server-side
// failures are logged as errors, client mistakes as warnings.
func (h *ApiHandler) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	entry := loggerFrom(r.Context(), h.log).WithFields(logrus.Fields{
		"status": status,
		"kind":   kind.String(),
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	respondWithJSON(w, status, errorResponse{
		Error:   apperr.PublicMessage(err),
		Details: apperr.PublicDetails(err),
	})
}

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request payload")
	}
	return nil
}

// pathID parses a positive integer route variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	if id < 1 {
		return 0, apperr.Validation("%s must be greater than or equal to 1", name)
	}
	return id, nil
}

// currentUserID returns the id set by AuthMiddleware.
func currentUserID(r *http.Request) (int64, error) {
	id, ok := r.Context().Value(ContextUserIDKey).(int64)
	if !ok {
		return 0, apperr.Authentication("Authentication required")
	}
	return id, nil
}
