package router

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"troopsite/internal/config"
	handlers "troopsite/internal/handler"
	"troopsite/internal/middleware"
	"troopsite/internal/storage"
)

// Setup builds the complete HTTP pipeline: logging, CORS, routing and the
// per-route admin and API key gates.
func Setup(h *handlers.Handlers, cfg *config.Config, store sessions.Store) http.Handler {
	r := mux.NewRouter()

	requireAdmin := middleware.RequireAdmin(store, cfg.Session.CookieName)
	requireKey := middleware.RequireAPIKey(h.AuthService)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)

	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/session", h.SessionStatus).Methods(http.MethodGet)

	uploadGates := []middleware.Middleware{requireAdmin}
	if cfg.RequireAPIKeyForUploads {
		// admin check stays outermost so anonymous callers always see 403
		uploadGates = []middleware.Middleware{requireKey, requireAdmin}
	}
	r.Handle("/api/upload", middleware.Chain(http.HandlerFunc(h.Upload), uploadGates...)).Methods(http.MethodPost)

	var listUploads http.Handler = http.HandlerFunc(h.ListUploads)
	if cfg.RequireAPIKeyForList {
		listUploads = requireKey(listUploads)
	}
	r.Handle("/api/uploads", listUploads).Methods(http.MethodGet)

	r.Handle("/api/announcement", requireAdmin(http.HandlerFunc(h.PostAnnouncement))).Methods(http.MethodPost)
	r.HandleFunc("/api/announcement", h.GetAnnouncement).Methods(http.MethodGet)

	if cfg.Storage.Backend == config.StorageLocal {
		prefix := storage.PublicPrefix + "/"
		files := http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(cfg.Storage.UploadDir))))
		r.PathPrefix(prefix).Handler(files).Methods(http.MethodGet, http.MethodHead)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return middleware.Chain(r,
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.LoggingMiddleware,
	)
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
