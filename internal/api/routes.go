package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"vocab-learning/internal/config"
)

// NewRouter registers every endpoint and wraps it with CORS, request logging
// and panic recovery.
func NewRouter(h *ApiHandler, cfg *config.Config) http.Handler {
	r := mux.NewRouter()
	r.Use(h.metrics.Middleware)

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()

	// --- 1. Public auth endpoints ---
	limiter := NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, h.log)
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Handle("/register", limiter.Middleware(http.HandlerFunc(h.RegisterUser))).Methods("POST")
	authRouter.Handle("/login", limiter.Middleware(http.HandlerFunc(h.LoginUser))).Methods("POST")
	authRouter.HandleFunc("/logout", h.LogoutUser).Methods("POST")
	authRouter.HandleFunc("/me", h.CurrentUser).Methods("GET")

	// --- 2. Authenticated endpoints ---
	s := apiRouter.PathPrefix("/").Subrouter()
	s.Use(h.AuthMiddleware)
	s.HandleFunc("/check-auth", h.CheckAuth).Methods("GET")

	s.HandleFunc("/topics", h.GetTopics).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}", h.GetTopic).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/vocabularies", h.GetTopicVocabularies).Methods("GET")
	s.HandleFunc("/vocabularies/search", h.SearchVocabularies).Methods("GET")
	s.HandleFunc("/vocabularies/{vocabulary_id:[0-9]+}", h.GetVocabulary).Methods("GET")

	s.HandleFunc("/topics/{topic_id:[0-9]+}/tests", h.GetTopicTests).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/tests", h.SubmitTest).Methods("POST")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/tests/", h.SubmitTest).Methods("POST")
	s.HandleFunc("/tests/{test_id:[0-9]+}", h.GetTest).Methods("GET")

	s.HandleFunc("/user/results", h.GetUserResults).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/results", h.GetTopicResults).Methods("GET")
	s.HandleFunc("/user/topics/{topic_id:[0-9]+}/results", h.GetUserTopicResults).Methods("GET")

	s.HandleFunc("/topics/{topic_id:[0-9]+}/leaderboard", h.GetTopicLeaderboard).Methods("GET")
	s.HandleFunc("/user/rank/{topic_id:[0-9]+}", h.GetUserRank).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/top-users", h.GetTopUsers).Methods("GET")

	s.HandleFunc("/user/statistics", h.GetUserStatistics).Methods("GET")
	s.HandleFunc("/topics/{topic_id:[0-9]+}/statistics", h.GetTopicStatistics).Methods("GET")

	s.HandleFunc("/user/profile", h.UpdateProfile).Methods("PUT")
	s.HandleFunc("/user/password", h.ChangePassword).Methods("PUT")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "Resource not found")
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
	})
	return c.Handler(RequestLogger(h.log)(Recoverer(h.log)(r)))
}
