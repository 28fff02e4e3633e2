package httpserver

import (
	"net/http"

	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/auth"
)

type sessionResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	User    userView         `json:"user"`
	Access  auth.AccessToken `json:"access"`
}

func sessionBody(s app.Session, msg string) sessionResponse {
	return sessionResponse{Success: true, Message: msg, User: viewUser(s.User), Access: s.Access}
}

func (h *Handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	s, err := h.Accounts.SignUp(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !s.Created {
		writeJSON(w, http.StatusOK, sessionBody(s, "Signed in successfully"))
		return
	}
	writeJSON(w, http.StatusCreated, sessionBody(s, ""))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	s, err := h.Accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionBody(s, ""))
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": viewUser(u)})
}

func (h *Handlers) checkAdmin(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	ok, err := h.Accounts.IsAdmin(r.Context(), u.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": ok})
}
