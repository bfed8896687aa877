package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"

	handlers "troopsite/internal/handler"
	"troopsite/internal/service"
	"troopsite/internal/sessionstore"
)

// APIKeyHeader carries the shared secret for key-gated routes.
const APIKeyHeader = "X-API-Key"

type Middleware func(http.Handler) http.Handler

// RequireAdmin lets the request through only for sessions flagged isAdmin.
// Allowed sessions are saved again so their expiry slides forward.
func RequireAdmin(store sessions.Store, name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, name)
			if err != nil {
				log.WithError(err).Warn("session lookup failed")
			}

			if !sessionstore.IsAdmin(session) {
				handlers.WriteError(w, "Admin access required", http.StatusForbidden)
				return
			}

			if err := session.Save(r, w); err != nil {
				log.WithError(err).Warn("failed to refresh session expiry")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPIKey checks the X-API-Key header against the configured key.
func RequireAPIKey(auth service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.CheckAPIKey(r.Header.Get(APIKeyHeader)) {
				handlers.WriteError(w, "Invalid or missing API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows credentialed requests from the listed origins only.
// An empty list allows no cross-origin requests.
func CORSMiddleware(origins []string) Middleware {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		// go-chi/cors treats an empty list as "*"
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	}
	return cors.Handler(opts)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}).Info("request")
	})
}

// Chain wraps h so that the last middleware runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
