package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"

	"troopsite/internal/config"
	"troopsite/internal/repository"
	"troopsite/internal/service"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	AuthService         service.AuthService
	UploadService       service.UploadService
	AnnouncementService service.AnnouncementService
	TablesService       service.TablesService
	TablesRepo          repository.TablesRepository
	Sessions            sessions.Store
	Health              HealthChecker
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, store sessions.Store, health HealthChecker, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UploadService:       service.Upload,
		AnnouncementService: service.Announcement,
		TablesService:       service.Tables,
		TablesRepo:          repo.Tables,
		Sessions:            store,
		Health:              health,
		Cfg:                 config,
		Validate:            validator.New(),
	}
}

// session always returns a usable session; backend failures degrade to an anonymous one.
func (h *Handlers) session(r *http.Request) *sessions.Session {
	session, err := h.Sessions.Get(r, h.Cfg.Session.CookieName)
	if err != nil {
		log.WithError(err).Warn("session lookup failed")
	}
	if session == nil {
		session = sessions.NewSession(h.Sessions, h.Cfg.Session.CookieName)
		session.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   int(h.Cfg.Session.MaxAge.Seconds()),
			HttpOnly: true,
		}
		session.IsNew = true
	}
	return session
}
