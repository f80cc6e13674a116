package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/auth"
)

type contextKey string

const (
	ContextUserIDKey   contextKey = "userID"
	ContextUsernameKey contextKey = "username"
	contextLoggerKey   contextKey = "logger"
)

const requestIDHeader = "X-Request-ID"

// tokenFromRequest reads the bearer token, falling back to the token query parameter.
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", apperr.Authentication("Invalid Authorization header format")
		}
		return parts[1], nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", apperr.Authentication("Authentication required")
}

// authenticate verifies the request token and returns its claims.
func (h *ApiHandler) authenticate(r *http.Request) (*auth.Claims, int64, error) {
	token, err := tokenFromRequest(r)
	if err != nil {
		return nil, 0, err
	}
	claims, err := h.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, 0, apperr.Authentication("Token has expired")
		}
		return nil, 0, apperr.Authentication("Invalid or expired token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, 0, apperr.Authentication("Invalid or expired token")
	}
	return claims, userID, nil
}

// AuthMiddleware rejects requests without a valid token and stores the
// caller's id and username in the request context.
func (h *ApiHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, userID, err := h.authenticate(r)
		if err != nil {
			h.respondWithAppError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserIDKey, userID)
		ctx = context.WithValue(ctx, ContextUsernameKey, claims.Username)
		ctx = context.WithValue(ctx, contextLoggerKey, loggerFrom(ctx, h.log).WithField("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggerFrom(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := ctx.Value(contextLoggerKey).(logrus.FieldLogger); ok {
		return l
	}
	return fallback
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			entry := log.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), contextLoggerKey, logrus.FieldLogger(entry))))

			entry.WithFields(logrus.Fields{
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}

// Recoverer turns a panic into a 500 response.
func Recoverer(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					loggerFrom(r.Context(), log).WithFields(logrus.Fields{
						"panic": rec,
						"stack": string(debug.Stack()),
					}).Error("panic recovered")
					respondWithError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
