package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vocab-learning/internal/auth"
	"vocab-learning/internal/config"
	"vocab-learning/internal/database"
	"vocab-learning/internal/domain"
	"vocab-learning/internal/metrics"
	"vocab-learning/internal/service"
)

const (
	testSecret   = "test-secret"
	testPassword = "Secret#123"
)

type testEnv struct {
	handler http.Handler
	api     *ApiHandler
	svc     Services
	tokens  *auth.TokenManager
	hook    *logtest.Hook
}

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, config.DatabaseConfig{Driver: "sqlite3", URL: ":memory:", ConnectRetries: 1}, logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	log, hook := logtest.NewNullLogger()
	topics := database.NewTopicDAO(db)
	results := service.NewTestResultService(database.NewTestResultDAO(db))
	board := service.NewLeaderboardService(database.NewLeaderboardDAO(db), topics)
	svc := Services{
		Users:        service.NewUserService(database.NewUserDAO(db), bcrypt.MinCost, log),
		Topics:       service.NewTopicService(topics),
		Vocabularies: service.NewVocabularyService(database.NewVocabularyDAO(db), topics),
		Tests:        service.NewTestService(database.NewTestDAO(db), topics, results, board, db, log),
		Results:      results,
		Leaderboard:  board,
	}
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	h := NewApiHandler(svc, tokens, metrics.New(), db, log)
	return &testEnv{handler: NewRouter(h, cfg), api: h, svc: svc, tokens: tokens, hook: hook}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account over HTTP and returns its token and id.
func (e *testEnv) register(t *testing.T, username string) (string, int64) {
	t.Helper()
	rec := e.do(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	return body["token"].(string), int64(user["id"].(float64))
}

func (e *testEnv) seedTopic(t *testing.T, name string, answers ...string) (*domain.VocabularyTopic, []*domain.Test) {
	t.Helper()
	ctx := context.Background()
	topic, err := e.svc.Topics.Create(ctx, name, name+" words")
	require.NoError(t, err)
	var tests []*domain.Test
	for _, a := range answers {
		tt, err := e.svc.Tests.Create(ctx, &domain.Test{
			TopicID: topic.ID, Question: "Pick " + a, CorrectAnswer: a,
			Option1: a + "-1", Option2: a + "-2", Option3: a + "-3",
		})
		require.NoError(t, err)
		tests = append(tests, tt)
	}
	return topic, tests
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// --- auth ---

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.do(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Registration successful", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	rec = env.do(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": testPassword,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "Wrong#1234"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["error"])

	rec = env.do(t, "GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])

	rec = env.do(t, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])

	rec = env.do(t, "GET", "/api/check-auth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, true, body["authenticated"])

	rec = env.do(t, "POST", "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decodeBody(t, rec)["message"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, testConfig())

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"malformed json", `{"username":`, "Invalid request payload"},
		{"missing fields", map[string]string{"username": "alice"}, "Missing required fields: email, password"},
		{"short username", map[string]string{"username": "al", "email": "a@example.com", "password": testPassword}, ""},
		{"bad email", map[string]string{"username": "alice", "email": "nope", "password": testPassword}, ""},
		{"weak password", map[string]string{"username": "alice", "email": "a@example.com", "password": "password"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")

	rec := env.do(t, "GET", "/api/topics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decodeBody(t, rec)["error"])

	rec = env.do(t, "GET", "/api/topics", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, rec)["error"])

	expired, err := auth.NewTokenManager(testSecret, -time.Minute).Issue(1, "alice")
	require.NoError(t, err)
	rec = env.do(t, "GET", "/api/topics", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has expired", decodeBody(t, rec)["error"])

	req := httptest.NewRequest("GET", "/api/topics", nil)
	req.Header.Set("Authorization", "Token "+token)
	raw := httptest.NewRecorder()
	env.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusUnauthorized, raw.Code)

	rec = env.do(t, "GET", "/api/topics?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	var rejected int
	for _, e := range env.hook.AllEntries() {
		if e.Message == "request rejected" {
			assert.Equal(t, logrus.WarnLevel, e.Level)
			rejected++
		}
	}
	assert.Equal(t, 4, rejected)
}

func TestProfileAndPassword(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")

	rec := env.do(t, "PUT", "/api/user/profile", token, map[string]string{"email": "new@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new@example.com", decodeBody(t, rec)["email"])

	rec = env.do(t, "PUT", "/api/user/profile", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "PUT", "/api/user/password", token, map[string]string{
		"current_password": "Wrong#1234", "new_password": "Another#456",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Current password is incorrect", decodeBody(t, rec)["error"])

	rec = env.do(t, "PUT", "/api/user/password", token, map[string]string{
		"current_password": testPassword, "new_password": "Another#456",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "alice", "password": "Another#456"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- content ---

func TestTopicsAndVocabularies(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")
	topic, _ := env.seedTopic(t, "Fruit")
	_, err := env.svc.Vocabularies.Create(context.Background(), &domain.Vocabulary{
		TopicID: topic.ID, Word: "apple", Meaning: "a red fruit", Phonetic: "apple /ˈæp.əl/",
	})
	require.NoError(t, err)

	rec := env.do(t, "GET", "/api/topics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	topics := decodeList(t, rec)
	require.Len(t, topics, 1)
	assert.Equal(t, "Fruit", topics[0]["name"])

	rec = env.do(t, "GET", "/api/topics/"+id(topic.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/topics/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "GET", "/api/topics/0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "GET", "/api/topics/"+id(topic.ID)+"/vocabularies", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	vocabs := decodeList(t, rec)
	require.Len(t, vocabs, 1)
	assert.Equal(t, "**apple** /ˈæp.əl/", vocabs[0]["formatted_example"])

	rec = env.do(t, "GET", "/api/vocabularies/"+id(int64(vocabs[0]["id"].(float64))), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/vocabularies/search?q=RED", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = env.do(t, "GET", "/api/vocabularies/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search keyword is required", decodeBody(t, rec)["error"])
}

func TestTestsIncludeAnswerAndOptions(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")
	topic, tests := env.seedTopic(t, "Fruit", "apple", "pear")

	rec := env.do(t, "GET", "/api/topics/"+id(topic.ID)+"/tests", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec)
	require.Len(t, list, 2)
	for i, item := range list {
		assert.Equal(t, tests[i].CorrectAnswer, item["correct_answer"])
		assert.Equal(t, tests[i].Option1, item["option1"])
		assert.Equal(t, tests[i].Option2, item["option2"])
		assert.Equal(t, tests[i].Option3, item["option3"])
		assert.Len(t, item["options"], 4)
	}

	rec = env.do(t, "GET", "/api/tests/"+id(tests[0].ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "apple", body["correct_answer"])
	assert.ElementsMatch(t, []any{"apple", "apple-1", "apple-2", "apple-3"}, body["options"])
}

// --- submissions, leaderboard, statistics ---

func TestSubmitAndLeaderboard(t *testing.T) {
	env := newTestEnv(t, testConfig())
	alice, aliceID := env.register(t, "alice")
	bob, _ := env.register(t, "bob")
	topic, tests := env.seedTopic(t, "Fruit", "apple", "pear", "plum", "fig")
	base := "/api/topics/" + id(topic.ID)

	rec := env.do(t, "POST", base+"/tests", alice, map[string]any{
		"answers":         map[string]string{id(tests[0].ID): "APPLE", id(tests[1].ID): "pear", id(tests[2].ID): "nope"},
		"completion_time": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Test submitted successfully", body["message"])
	result := body["result"].(map[string]any)
	assert.Equal(t, 50.0, result["score"])
	assert.Equal(t, 2.0, result["correct_answers"])
	assert.Equal(t, 4.0, result["total_questions"])
	assert.Equal(t, 30.0, result["completion_time"])

	rec = env.do(t, "POST", base+"/tests", bob, map[string]any{
		"answers":         map[string]string{id(tests[0].ID): "apple", id(tests[1].ID): "pear", id(tests[2].ID): "plum", id(tests[3].ID): "fig"},
		"completion_time": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, "GET", base+"/leaderboard", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decodeList(t, rec)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0]["username"])
	assert.Equal(t, 1.0, board[0]["rank"])
	assert.Equal(t, "gold", board[0]["medal"])
	assert.Equal(t, "2nd", board[1]["rank_label"])

	rec = env.do(t, "GET", "/api/user/rank/"+id(topic.ID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rank := decodeBody(t, rec)
	assert.Equal(t, 2.0, rank["rank"])
	assert.Equal(t, 2.0, rank["total_participants"])
	assert.Equal(t, 0.0, rank["percentile"])

	rec = env.do(t, "GET", base+"/top-users?limit=1", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = env.do(t, "GET", base+"/top-users?limit=0", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, "GET", base+"/top-users?limit=abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "GET", "/api/user/results", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeList(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, float64(aliceID), results[0]["user_id"])

	rec = env.do(t, "GET", base+"/results", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)

	rec = env.do(t, "GET", "/api/user/topics/"+id(topic.ID)+"/results", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = env.do(t, "GET", base+"/statistics", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	testStats := stats["test_statistics"].(map[string]any)
	assert.Equal(t, 2.0, testStats["total_tests"])
	assert.Equal(t, 75.0, testStats["average_score"])
	boardStats := stats["leaderboard_statistics"].(map[string]any)
	assert.Equal(t, 2.0, boardStats["total_participants"])
	assert.Equal(t, 100.0, boardStats["highest_score"])
	assert.Len(t, boardStats["top_performers"], 2)
	dist := boardStats["score_distribution"].(map[string]any)
	assert.Equal(t, 1.0, dist["excellent"])
	assert.Equal(t, 1.0, dist["average"])

	rec = env.do(t, "GET", "/api/user/statistics", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats = decodeBody(t, rec)
	userBoard := stats["leaderboard_statistics"].(map[string]any)
	assert.Equal(t, 1.0, userBoard["total_topics_participated"])
	assert.Equal(t, 2.0, userBoard["best_rank"])
}

func TestUserRankWithoutSubmission(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")
	topic, _ := env.seedTopic(t, "Fruit", "apple")

	rec := env.do(t, "GET", "/api/user/rank/"+id(topic.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "rank")
	assert.Nil(t, body["rank"])
	assert.Equal(t, 0.0, body["total_participants"])
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")
	topic, tests := env.seedTopic(t, "Fruit", "apple")
	empty, _ := env.seedTopic(t, "Empty")
	path := "/api/topics/" + id(topic.ID) + "/tests"

	tests2 := []struct {
		name    string
		path    string
		body    any
		status  int
		message string
	}{
		{"malformed", path, `{"answers": [}`, http.StatusBadRequest, "Invalid request payload"},
		{"missing fields", path, map[string]any{}, http.StatusBadRequest, "Missing required fields: answers, completion_time"},
		{"non numeric id", path, map[string]any{"answers": map[string]string{"abc": "x"}, "completion_time": 1}, http.StatusBadRequest, "Invalid test_id: abc"},
		{"zero id", path, map[string]any{"answers": map[string]string{"0": "x"}, "completion_time": 1}, http.StatusBadRequest, "Invalid test_id: 0"},
		{"non string answer", path, map[string]any{"answers": map[string]any{id(tests[0].ID): 5}, "completion_time": 1}, http.StatusBadRequest, ""},
		{"negative time", path, map[string]any{"answers": map[string]string{id(tests[0].ID): "x"}, "completion_time": -5}, http.StatusBadRequest, "completion_time must be greater than or equal to 0"},
		{"unknown test", path, map[string]any{"answers": map[string]string{"9999": "x"}, "completion_time": 1}, http.StatusBadRequest, "Invalid test IDs: [9999]"},
		{"topic without tests", "/api/topics/" + id(empty.ID) + "/tests", map[string]any{"answers": map[string]string{"1": "x"}, "completion_time": 1}, http.StatusNotFound, "No tests found for this topic"},
	}

	for _, tt := range tests2 {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", tt.path, token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
			}
		})
	}

	rec := env.do(t, "POST", path, token, map[string]any{"answers": map[string]string{"9999": "x"}, "completion_time": 1})
	details := decodeBody(t, rec)["details"].(map[string]any)
	assert.Equal(t, []any{9999.0}, details["invalid_test_ids"])

	rec = env.do(t, "GET", "/api/user/results", token, nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

// --- middleware and infrastructure ---

func TestRateLimitOnAuthRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	env := newTestEnv(t, cfg)

	login := map[string]string{"username": "nobody", "password": testPassword}
	rec := env.do(t, "POST", "/api/auth/login", "", login)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "POST", "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Logout is not limited.
	rec = env.do(t, "POST", "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterKeysByIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, logrus.New())
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:2000"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1000"))
}

func TestRecovererAndRequestID(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := RequestLogger(log)(Recoverer(log)(panicking))

	req := httptest.NewRequest("GET", "/explode", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Equal(t, "req-123", entries[0].Data["request_id"])
	assert.Equal(t, "request completed", entries[1].Message)
	assert.Equal(t, http.StatusInternalServerError, entries[1].Data["status"])
}

func TestRequestIDGenerated(t *testing.T) {
	env := newTestEnv(t, testConfig())
	rec := env.do(t, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.do(t, "GET", "/health", "", nil)

	rec := env.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vocab_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, testConfig())

	req := httptest.NewRequest("OPTIONS", "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, testConfig())
	rec := env.do(t, "GET", "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAcceptsTrailingSlash(t *testing.T) {
	env := newTestEnv(t, testConfig())
	token, _ := env.register(t, "alice")
	topic, tests := env.seedTopic(t, "Fruit", "apple", "pear")

	rec := env.do(t, "POST", "/api/topics/"+id(topic.ID)+"/tests/", token, map[string]any{
		"answers":         map[string]string{id(tests[0].ID): "apple"},
		"completion_time": 12,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody(t, rec)["result"].(map[string]any)
	assert.Equal(t, 50.0, result["score"])
}
