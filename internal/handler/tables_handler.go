package handlers

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesDB()
	if err != nil {
		log.WithError(err).WithField("route", "tables").Error("failed to count tables")
		WriteError(w, "Failed to count tables", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, TablesResponse{CountTables: count}, http.StatusOK)
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Health != nil {
		if err := h.Health.HealthCheck(ctx); err != nil {
			log.WithError(err).Warn("health check failed")
			WriteJSON(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	WriteJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}
