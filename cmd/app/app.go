package app

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"troopsite/internal/config"
	"troopsite/internal/database"
	"troopsite/internal/repository"
	"troopsite/internal/service"
	"troopsite/internal/sessionstore"
	"troopsite/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Sessions *sessionstore.Store

	closers []func() error
}

// New wires every process-lifetime dependency. It exits on failure.
func New(cfg *config.Config) *App {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// upload storage
	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store)

	a := &App{
		DB:       db,
		Repo:     repo,
		Services: services,
		closers:  []func() error{db.CloseDB},
	}

	backend, err := a.sessionBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s session store: %v", cfg.Session.Store, err)
	}
	a.Sessions = sessionstore.New(backend, SessionOptions(cfg), []byte(cfg.Session.Secret))

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD is not set, admin login is disabled")
	}

	return a
}

func (a *App) sessionBackend(ctx context.Context, cfg *config.Config) (sessionstore.Backend, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return sessionstore.NewRedisBackend(client, "troop:sess:"), nil
	case config.SessionStoreMemory:
		return sessionstore.NewMemoryBackend(), nil
	default:
		return sessionstore.NewSQLBackend(a.Repo.Session), nil
	}
}

// SessionOptions derives cookie attributes from the environment. Production
// frontends live on another site, which requires SameSite=None and Secure.
func SessionOptions(cfg *config.Config) *sessions.Options {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.IsProduction() {
		opts.Secure = true
		opts.SameSite = http.SameSiteNoneMode
	}
	return opts
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.WithError(err).Warn("error during shutdown")
		}
	}
}

func ConfigureLogging(cfg config.Log) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
