package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"troopsite/internal/service"
)

type AnnouncementRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.AnnouncementService.SetAnnouncement(r.Context(), req.Content); err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			WriteError(w, "Announcement content is required", http.StatusBadRequest)
			return
		}
		log.WithError(err).WithField("route", "announcement").Error("failed to post announcement")
		WriteError(w, "Failed to post announcement", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, MessageResponse{Message: "Announcement posted successfully"}, http.StatusOK)
}

// GetAnnouncement answers with the announcement or a JSON null.
func (h *Handlers) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := h.AnnouncementService.GetAnnouncement(r.Context())
	if err != nil {
		log.WithError(err).WithField("route", "announcement").Error("failed to fetch announcement")
		WriteError(w, "Failed to fetch announcement", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, announcement, http.StatusOK)
}
