package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
)

func (h *ApiHandler) issueToken(u *domain.User) (string, error) {
	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return "", apperr.Service("Failed to generate token")
	}
	return token, nil
}

func (h *ApiHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	user, err := h.svc.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	token, err := h.issueToken(user)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{
		Message: "Registration successful",
		User:    newUserView(user),
		Token:   token,
	})
}

func (h *ApiHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	user, err := h.svc.Users.Login(r.Context(), req.Username, req.Password)
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	token, err := h.issueToken(user)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	loggerFrom(r.Context(), h.log).WithField("user_id", user.ID).Info("user logged in")
	respondWithJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    newUserView(user),
		Token:   token,
	})
}

// LogoutUser is stateless; clients drop the token.
func (h *ApiHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// CurrentUser answers whether the request carries a valid token, without
// requiring one.
func (h *ApiHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	type meResponse struct {
		Authenticated bool      `json:"authenticated"`
		User          *userView `json:"user,omitempty"`
		Message       string    `json:"message,omitempty"`
	}

	_, userID, err := h.authenticate(r)
	if err != nil {
		respondWithJSON(w, http.StatusUnauthorized, meResponse{Message: apperr.PublicMessage(err)})
		return
	}
	user, err := h.svc.Users.Get(r.Context(), userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			respondWithJSON(w, http.StatusUnauthorized, meResponse{Message: "User not found"})
			return
		}
		h.respondWithAppError(w, r, err)
		return
	}
	view := newUserView(user)
	respondWithJSON(w, http.StatusOK, meResponse{Authenticated: true, User: &view})
}

func (h *ApiHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	username, _ := r.Context().Value(ContextUsernameKey).(string)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       userID,
		"username":      username,
	})
}

func (h *ApiHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	user, err := h.svc.Users.UpdateProfile(r.Context(), userID, req.Username, req.Email)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserView(user))
}

func (h *ApiHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	if err := h.svc.Users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	loggerFrom(r.Context(), h.log).WithFields(logrus.Fields{"user_id": userID}).Info("password updated")
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
