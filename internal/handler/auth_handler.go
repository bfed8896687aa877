package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"troopsite/internal/sessionstore"
)

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// a missing password is just a wrong password
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.Login(req.Password); err != nil {
		log.WithField("remote", r.RemoteAddr).Warn("admin login rejected")
		WriteError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	session := h.session(r)
	session.Values[sessionstore.AdminKey] = true
	if err := session.Save(r, w); err != nil {
		log.WithError(err).Error("failed to save admin session")
		WriteError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	log.WithField("remote", r.RemoteAddr).Info("admin logged in")
	WriteJSON(w, OKResponse{OK: true}, http.StatusOK)
}

// Logout destroys the session; it succeeds even without one.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.WithError(err).Warn("failed to destroy session")
	}

	WriteJSON(w, OKResponse{OK: true}, http.StatusOK)
}

func (h *Handlers) SessionStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, SessionResponse{IsAdmin: sessionstore.IsAdmin(h.session(r))}, http.StatusOK)
}
