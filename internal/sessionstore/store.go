// Package sessionstore implements a gorilla/sessions Store that keeps session
// values on the server and only puts a signed session ID in the cookie.
package sessionstore

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

// AdminKey is the session value set once the admin password was accepted.
const AdminKey = "isAdmin"

var errNotFound = errors.New("session not found")

// Backend persists serialized session values by ID.
type Backend interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Store(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Pruner is implemented by backends that need expired entries removed explicitly.
type Pruner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Store struct {
	backend Backend
	codecs  []securecookie.Codec
	Options *sessions.Options
}

var _ sessions.Store = (*Store)(nil)

func New(backend Backend, options *sessions.Options, keyPairs ...[]byte) *Store {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(options.MaxAge)
		}
	}

	return &Store{
		backend: backend,
		codecs:  codecs,
		Options: options,
	}
}

// Get returns the session cached in the request registry, loading it on first use.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New never returns a nil session: an unknown, expired or tampered cookie
// yields a fresh anonymous one.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	data, err := s.backend.Load(r.Context(), session.ID)
	if errors.Is(err, errNotFound) {
		session.ID = ""
		return session, nil
	}
	if err != nil {
		session.ID = ""
		return session, fmt.Errorf("failed to load session: %w", err)
	}

	var codec securecookie.GobEncoder
	if err := codec.Deserialize(data, &session.Values); err != nil {
		session.ID = ""
		return session, fmt.Errorf("failed to decode session: %w", err)
	}

	session.IsNew = false
	return session, nil
}

// Save writes the session to the backend and refreshes the cookie. A negative
// MaxAge deletes the session.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(r.Context(), session.ID); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	var codec securecookie.GobEncoder
	data, err := codec.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.Store(r.Context(), session.ID, data, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("failed to sign session cookie: %w", err)
	}

	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Cleanup prunes expired sessions every interval until ctx is done.
// It returns immediately for backends that expire entries themselves.
func (s *Store) Cleanup(ctx context.Context, interval time.Duration) {
	pruner, ok := s.backend.(Pruner)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := pruner.DeleteExpired(ctx, now)
			if err != nil {
				log.WithError(err).Warn("session cleanup failed")
				continue
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("expired sessions pruned")
			}
		}
	}
}

func IsAdmin(session *sessions.Session) bool {
	if session == nil {
		return false
	}
	isAdmin, ok := session.Values[AdminKey].(bool)
	return ok && isAdmin
}
